package db

import "testing"

func TestBuildDSN(t *testing.T) {
	got := buildDSN("pg", "ledger", "secret", "dompet", "5432", "disable")
	want := "host=pg user=ledger password=secret dbname=dompet port=5432 sslmode=disable"
	if got != want {
		t.Errorf("buildDSN = %q, want %q", got, want)
	}
}

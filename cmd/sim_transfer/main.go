package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"dompet/internal/config"
	"dompet/internal/infrastructure/cache"
	"dompet/internal/model"
	"dompet/internal/modules/ledger/dto"
	"dompet/internal/modules/ledger/usecase"
	"dompet/internal/store"
)

// Hammers one user's ledger with concurrent transfers and checks that the
// total across wallets is conserved and reconciliation finds no drift.
func main() {
	user := flag.String("user", fmt.Sprintf("sim-%d", time.Now().Unix()), "user_id")
	cur := flag.String("cur", "IDR", "currency")
	mode := flag.String("mode", "blast", "test mode: blast | pingpong")
	n := flag.Int("n", 200, "number of concurrent transfers")
	amt := flag.Int64("amt", 1_000, "amount per transfer (minor units)")
	opening := flag.Int64("opening", 100_000, "opening balance of the source wallet")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()
	rdb, err := cache.ConnectRedis(ctx, *cfg.Redis)
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()

	u := usecase.NewLedgerUsecase(store.NewRedisStore(rdb), nil)

	a, err := u.CreateWallet(ctx, *user, dto.CreateWalletInput{Name: "Sim A", Currency: *cur, OpeningBalance: *opening})
	if err != nil {
		log.Fatal(err)
	}
	b, err := u.CreateWallet(ctx, *user, dto.CreateWalletInput{Name: "Sim B", Currency: *cur, OpeningBalance: *opening})
	if err != nil {
		log.Fatal(err)
	}

	var applied, insufficient, failed int64
	transfer := func(from, to string) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_, err := u.CreateTransfer(ctx, *user, dto.TransferInput{
			FromWalletID: from,
			ToWalletID:   to,
			Amount:       *amt,
			Description:  "sim",
		})
		switch {
		case err == nil:
			atomic.AddInt64(&applied, 1)
		case errors.Is(err, model.ErrInsufficientBalance):
			atomic.AddInt64(&insufficient, 1)
		default:
			atomic.AddInt64(&failed, 1)
			log.Printf("err: %v", err)
		}
	}

	log.Printf("Running %s test: user=%s n=%d amt=%d", *mode, *user, *n, *amt)
	var wg sync.WaitGroup
	for i := 0; i < *n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch *mode {
			case "pingpong":
				if i%2 == 0 {
					transfer(a.ID, b.ID)
				} else {
					transfer(b.ID, a.ID)
				}
			default:
				transfer(a.ID, b.ID)
			}
		}(i)
	}
	wg.Wait()

	wallets, err := u.ListWallets(ctx, *user)
	if err != nil {
		log.Fatal(err)
	}
	var total int64
	for _, w := range wallets {
		if w.Balance < 0 {
			log.Printf("❌ wallet %s went negative: %d", w.Name, w.Balance)
		}
		total += w.Balance
	}
	log.Printf("applied=%d insufficient=%d failed=%d", applied, insufficient, failed)
	log.Printf("total=%d (expected=%d)", total, 2**opening)

	run, err := u.Reconcile(ctx, *user)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("reconcile drifted=%d (expected=0)", run.Drifted)
	log.Println("Done.")
}

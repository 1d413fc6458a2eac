package store

import (
	"context"
	_ "embed"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"dompet/internal/model"

	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
)

var (
	//go:embed lua/entry_create.lua
	luaEntryCreate string
	//go:embed lua/entry_edit.lua
	luaEntryEdit string
	//go:embed lua/entry_delete.lua
	luaEntryDelete string
	//go:embed lua/transfer_create.lua
	luaTransferCreate string
	//go:embed lua/transfer_edit.lua
	luaTransferEdit string
	//go:embed lua/transfer_delete.lua
	luaTransferDelete string
	//go:embed lua/wallet_create.lua
	luaWalletCreate string
	//go:embed lua/wallet_archive.lua
	luaWalletArchive string
)

// StreamLedger is the global change stream consumed by the journal worker.
const StreamLedger = "stream:ledger"

// RedisStore menyimpan wallet dan entry per user sebagai hash Redis.
// Semua mutasi saldo berjalan di dalam satu Lua script (atomic), termasuk
// transfer yang menyentuh dua wallet sekaligus.
type RedisStore struct {
	rdb redis.UniversalClient

	scrEntryCreate    *redis.Script
	scrEntryEdit      *redis.Script
	scrEntryDelete    *redis.Script
	scrTransferCreate *redis.Script
	scrTransferEdit   *redis.Script
	scrTransferDelete *redis.Script
	scrWalletCreate   *redis.Script
	scrWalletArchive  *redis.Script

	// FollowBlock is how long one XREAD waits before re-checking the context.
	FollowBlock time.Duration
	// MaxCASRetries bounds ApplyBalances when concurrent writes keep landing.
	MaxCASRetries int
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	s := &RedisStore{
		rdb:               rdb,
		scrEntryCreate:    redis.NewScript(luaEntryCreate),
		scrEntryEdit:      redis.NewScript(luaEntryEdit),
		scrEntryDelete:    redis.NewScript(luaEntryDelete),
		scrTransferCreate: redis.NewScript(luaTransferCreate),
		scrTransferEdit:   redis.NewScript(luaTransferEdit),
		scrTransferDelete: redis.NewScript(luaTransferDelete),
		scrWalletCreate:   redis.NewScript(luaWalletCreate),
		scrWalletArchive:  redis.NewScript(luaWalletArchive),
		FollowBlock:       5 * time.Second,
		MaxCASRetries:     5,
	}

	// Preload SHA agar call pertama tidak kena EVAL penuh / NOSCRIPT
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		for _, scr := range []*redis.Script{
			s.scrEntryCreate, s.scrEntryEdit, s.scrEntryDelete,
			s.scrTransferCreate, s.scrTransferEdit, s.scrTransferDelete,
			s.scrWalletCreate, s.scrWalletArchive,
		} {
			_ = scr.Load(ctx, rdb).Err() // Run() tetap fallback ke EVAL
		}
	}()

	return s
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// All keys of one user share the {user} hash tag so scripts stay single-slot.
func keyWallet(userID, walletID string) string {
	return fmt.Sprintf("wallet:{%s}:%s", userID, walletID)
}
func keyWallets(userID string) string { return fmt.Sprintf("wallets:{%s}", userID) }
func keyEntry(userID string, kind model.Kind, id string) string {
	return fmt.Sprintf("%s:{%s}:%s", kind, userID, id)
}
func keyHistory(userID string, kind model.Kind, id string) string {
	return fmt.Sprintf("hist:{%s}:%s:%s", userID, kind, id)
}
func keyIndex(userID string, kind model.Kind) string {
	return fmt.Sprintf("%s:{%s}", kind.Collection(), userID)
}
func keyRev(userID string) string    { return fmt.Sprintf("rev:{%s}", userID) }
func keyStream(userID string) string { return fmt.Sprintf("stream:ledger:{%s}", userID) }

func fmtAmount(n int64) string { return strconv.FormatInt(n, 10) }

// run executes a ledger script and translates its status code.
// Scripts reply {code, ...}; code 1 means applied.
func (s *RedisStore) run(ctx context.Context, scr *redis.Script, keys []string, args ...any) ([]int64, error) {
	res, err := scr.Run(ctx, s.rdb, keys, args...).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrWriteFailure, err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: empty script reply", model.ErrWriteFailure)
	}
	if err := codeError(res[0]); err != nil {
		return res, err
	}
	return res, nil
}

func codeError(code int64) error {
	switch code {
	case 1:
		return nil
	case -1:
		return model.ErrWalletNotFound
	case -2:
		return model.ErrWalletArchived
	case -3:
		return model.ErrCurrencyMismatch
	case -4:
		return model.ErrInsufficientBalance
	case -5:
		return model.ErrEntryNotFound
	case -6:
		return model.ErrConflict
	case -7:
		return model.ErrSameWallet
	case -8:
		return model.ErrWalletNotEmpty
	}
	return fmt.Errorf("%w: unexpected script code %d", model.ErrWriteFailure, code)
}

var timeType = reflect.TypeOf(time.Time{})

// millisToTime decodes the created_at fields, stored as unix milliseconds.
func millisToTime(from, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	ms, err := strconv.ParseInt(data.(string), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", data, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// decodeHash maps an HGETALL reply onto a model struct.
func decodeHash(id string, fields map[string]string, out any) error {
	input := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		input[k] = v
	}
	input["id"] = id

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       millisToTime,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

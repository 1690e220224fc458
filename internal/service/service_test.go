package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/bigkaa/gomediafiles/internal/domain/model"
	"github.com/bigkaa/gomediafiles/internal/repository"
	"github.com/bigkaa/gomediafiles/internal/storage/filestore"
)

// testLogger — логгер, пишущий в никуда.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFileRepo — in-memory реализация FileRepository для тестов
// сервисного слоя. Повторяет контракт: уникальность hash, невидимость
// неактивных записей, сортировка листинга новые-первыми.
type fakeFileRepo struct {
	mu     sync.Mutex
	nextID int64
	byHash map[string]*model.FileRecord

	// insertErr — если задана, Insert возвращает её
	insertErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{byHash: make(map[string]*model.FileRecord)}
}

func (f *fakeFileRepo) Insert(_ context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if _, exists := f.byHash[rec.Hash]; exists {
		return nil, repository.ErrDuplicateKey
	}

	f.nextID++
	out := *rec
	out.ID = f.nextID
	out.CreateDate = time.Now()
	out.ModifyDate = out.CreateDate
	f.byHash[out.Hash] = &out
	return &out, nil
}

func (f *fakeFileRepo) GetByHash(_ context.Context, hash string) (*model.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.byHash[hash]
	if !ok || !rec.IsActive {
		return nil, repository.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *fakeFileRepo) ListByUser(_ context.Context, userID int64) ([]*model.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.FileRecord
	for _, rec := range f.byHash {
		if rec.UserID == userID && rec.IsActive {
			out := *rec
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (f *fakeFileRepo) Update(_ context.Context, id int64, upd repository.UpdateParams) (*model.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, rec := range f.byHash {
		if rec.ID == id {
			if upd.Name != nil {
				rec.Name = *upd.Name
			}
			if upd.IsActive != nil {
				rec.IsActive = *upd.IsActive
			}
			rec.ModifyDate = time.Now()
			out := *rec
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFileRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for hash, rec := range f.byHash {
		if rec.ID == id {
			delete(f.byHash, hash)
			return nil
		}
	}
	return repository.ErrNotFound
}

// newTestStore создаёт FileStore во временной директории.
func newTestStore(t *testing.T) *filestore.FileStore {
	t.Helper()
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}
	return store
}

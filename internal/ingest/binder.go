package ingest

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/stockroom-backend/internal/clients/blob"
	"github.com/yungbote/stockroom-backend/internal/logger"
)

// Target is one normalized row waiting for an image. ID is the identity key
// the bound URL belongs to.
type Target struct {
	ID          string
	SheetRow    int
	ExplicitURL string
}

// Binder resolves an image URL per row: an explicit image/image_url cell
// wins verbatim, otherwise an embedded picture anchored inside the row is
// extracted to the blob store. Rows without either are left unbound, which
// is not an error.
type Binder struct {
	log         *logger.Logger
	store       blob.Store
	parallelism int
}

func NewBinder(log *logger.Logger, store blob.Store) *Binder {
	return &Binder{
		log:         log.With("component", "ImageBinder"),
		store:       store,
		parallelism: 4,
	}
}

// Bind returns identity→URL for every target it could resolve. This is pure
// computation plus blob writes and runs before any store lock is taken. Tie
// break: when one anchor could serve more than one target, the first target
// in document order wins and the rest are logged, never failed.
func (b *Binder) Bind(ctx context.Context, targets []Target, pics []Picture) (map[string]string, error) {
	urls := make(map[string]string)

	picsByRow := make(map[int][]Picture)
	for _, p := range pics {
		picsByRow[p.AnchorRow] = append(picsByRow[p.AnchorRow], p)
	}

	type extraction struct {
		id  string
		pic Picture
	}
	var pending []extraction

	for _, t := range targets {
		if _, bound := urls[t.ID]; bound {
			b.log.Warn("Multiple rows resolve to one identity, keeping first in document order", "identity", t.ID, "sheet_row", t.SheetRow)
			continue
		}
		if t.ExplicitURL != "" {
			urls[t.ID] = t.ExplicitURL
			continue
		}
		rowPics := picsByRow[t.SheetRow]
		if len(rowPics) == 0 {
			continue
		}
		if len(rowPics) > 1 {
			b.log.Warn("Ambiguous image anchor, binding first picture in document order", "identity", t.ID, "sheet_row", t.SheetRow, "candidates", len(rowPics))
		}
		urls[t.ID] = "" // reserved, filled in below
		pending = append(pending, extraction{id: t.ID, pic: rowPics[0]})
	}

	if len(pending) == 0 {
		return urls, nil
	}
	if b.store == nil {
		for _, ex := range pending {
			delete(urls, ex.id)
		}
		b.log.Warn("No blob store configured, embedded pictures skipped", "pictures", len(pending))
		return urls, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)
	for _, ex := range pending {
		g.Go(func() error {
			key := fmt.Sprintf("images/%s%s", ex.id, ex.pic.Extension)
			url, err := b.store.Put(gctx, key, ex.pic.Data)
			if err != nil {
				return fmt.Errorf("store picture for %s: %w", ex.id, err)
			}
			mu.Lock()
			urls[ex.id] = url
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// internal/app/system/paging/paging.go
package paging

import (
	"net/http"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the number of rows in paged lists. Callers fetch
// PageSize+1 documents so the extra row signals another page.
const PageSize = 50

// LimitPlusOne is the look-ahead fetch limit.
func LimitPlusOne() int64 { return PageSize + 1 }

// Cursors reads the before/after cursor parameters from a request.
func Cursors(r *http.Request) (before, after string) {
	return query.Get(r, "before"), query.Get(r, "after")
}

// Direction indicates which way the page moves through the sort order.
type Direction int

const (
	Forward  Direction = iota // ascending sort, cursor condition "gt"
	Backward                  // descending sort, cursor condition "lt"
)

// KeysetConfig is a decoded pagination request: direction, sort order,
// and the cursor position when one was supplied.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 ascending, -1 descending
	Cursor    *wafflemongo.Cursor
}

// ConfigureKeyset decodes before/after into a keyset config. A "before"
// cursor wins and flips the scan direction.
func ConfigureKeyset(before, after string) KeysetConfig {
	cfg := KeysetConfig{Direction: Forward, SortOrder: 1}

	if before != "" {
		cfg.Direction = Backward
		cfg.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			cfg.Cursor = &c
		}
	} else if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			cfg.Cursor = &c
		}
	}

	return cfg
}

// ApplyToFind sets the sort and look-ahead limit on find options.
// _id is the tiebreak so equal sort keys page deterministically.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(LimitPlusOne())
}

// KeysetWindow returns the cursor filter condition, or nil when the
// request had no cursor.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Result reports whether neighboring pages exist after trimming.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage trims a PageSize+1 fetch down to a page, in place.
//
// Going backwards the extra row is the oldest and is dropped from the
// front; a next page always exists because we came from it. Going
// forwards the extra row is dropped from the end, and a previous page
// exists only when an "after" cursor was supplied.
func TrimPage[T any](rows *[]T, before, after string) Result {
	orig := len(*rows)
	var res Result

	if before != "" {
		if orig > PageSize {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
	} else {
		if orig > PageSize {
			*rows = (*rows)[:PageSize]
			res.HasNext = true
		}
		res.HasPrev = after != ""
	}

	return res
}

// Reverse restores display order after a backward fetch.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors encodes prev/next cursors from the first and last rows.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first, last := rows[0], rows[len(rows)-1]
	return wafflemongo.EncodeCursor(keyFn(first), idFn(first)),
		wafflemongo.EncodeCursor(keyFn(last), idFn(last))
}

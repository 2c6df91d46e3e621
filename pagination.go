package duffel

import (
	"context"
	"errors"
	"iter"
	"net/http"

	"github.com/fabianMendez/duffel/pkg/decode"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type ListParams struct {
	// Limit is the page size; zero means DefaultLimit.
	Limit int
	// After resumes listing from a cursor returned by a previous listing.
	After string
}

// Iter walks a paginated listing one item at a time. Pages are fetched
// lazily, one request at a time, and only when the previous page has been
// consumed. Once Next returns false the iterator stays exhausted: a fresh
// List call is needed to start over.
type Iter[T any] struct {
	ctx    context.Context
	client *Client
	path   string
	params Params
	decode func(*decode.Object) T

	page  []*decode.Object
	after string
	done  bool
	cur   T
	err   error
}

func newIter[T any](ctx context.Context, c *Client, path string, lp ListParams, extra Params, fn func(*decode.Object) T) (*Iter[T], error) {
	limit := lp.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 {
		return nil, invalid("limit", limit, ErrInvalidLimit)
	}
	if limit > MaxLimit {
		return nil, invalid("limit", limit, ErrLimitExceeded)
	}

	params := Params{}
	params.AddInt("limit", limit)
	params.list = append(params.list, extra.list...)

	return &Iter[T]{
		ctx:    ctx,
		client: c,
		path:   path,
		params: params,
		decode: fn,
		after:  lp.After,
	}, nil
}

// Next advances to the next item, fetching a page if needed.
func (it *Iter[T]) Next() bool {
	if it.err != nil {
		return false
	}

	for len(it.page) == 0 {
		if it.done {
			return false
		}
		if err := it.fetch(); err != nil {
			it.err = err
			it.done = true
			return false
		}
	}

	item := it.page[0]
	it.page = it.page[1:]

	v := it.decode(item)
	if err := item.Err(); err != nil {
		it.err = err
		it.page = nil
		it.done = true
		return false
	}
	it.cur = v

	return true
}

func (it *Iter[T]) Current() T { return it.cur }

func (it *Iter[T]) Err() error { return it.err }

// After is the cursor of the next page, empty once the last page has been
// fetched.
func (it *Iter[T]) After() string { return it.after }

func (it *Iter[T]) fetch() error {
	params := it.params.clone()
	if it.after != "" {
		params.Set("after", it.after)
	}

	resp, err := it.client.call(it.ctx, http.MethodGet, it.path, params, nil)
	if err != nil {
		return err
	}
	if resp.Body == nil {
		return &ResponseError{StatusCode: resp.StatusCode, Err: errors.New("empty response")}
	}

	envelope, err := decode.Parse(resp.Body, "")
	if err != nil {
		return err
	}
	if envelope.Raw("data") == nil {
		return &ResponseError{StatusCode: resp.StatusCode, Body: string(resp.Body), Err: errors.New("missing data")}
	}

	var items []*decode.Object
	envelope.Each("data", func(item *decode.Object) {
		items = append(items, item)
	})

	after := ""
	if meta := envelope.OptObject("meta"); meta != nil {
		if cursor := meta.OptString("after"); cursor != nil {
			after = *cursor
		}
	}
	if err := envelope.Err(); err != nil {
		return err
	}

	it.page = items
	it.after = after
	if after == "" {
		it.done = true
	}

	return nil
}

// All adapts the iterator to a range-over-func sequence. A failure is
// yielded once, as the last pair.
func (it *Iter[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next() {
			if !yield(it.cur, nil) {
				return
			}
		}
		if it.err != nil {
			var zero T
			yield(zero, it.err)
		}
	}
}

// Collect drains the iterator.
func (it *Iter[T]) Collect() ([]T, error) {
	items := []T{}
	for it.Next() {
		items = append(items, it.cur)
	}
	return items, it.err
}

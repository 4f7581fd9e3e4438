package cache

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// A mixed workload of Put/Get/Invalidate racing with loader completions
// delivered from other goroutines. Should pass under `-race`.
func TestRace_AsyncCompletions(t *testing.T) {
	var loads atomic.Int64
	var removals atomic.Int64

	c := MustNew(Options[string, string]{
		MaximumSize:      256,
		ExpireAfterWrite: 5 * time.Millisecond,
		OnRemove:         func(string, string, RemovalCause) { removals.Add(1) },
		Loader: LoaderFunc(func(_ context.Context, k string) (string, error) {
			loads.Add(1)
			return "v:" + k, nil
		}),
	})

	const workers = 8
	deadline := time.Now().Add(500 * time.Millisecond)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(w) * 9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(1024))
				switch r.Intn(10) {
				case 0: // ~10% — Invalidate
					c.Invalidate(k)
				case 1, 2: // ~20% — Put
					c.Put(k, "x")
				default: // ~70% — Get
					ctx, cancel := context.WithTimeout(context.Background(), time.Second)
					v, err := c.Fetch(ctx, k)
					cancel()
					if err != nil {
						return err
					}
					if v != "x" && v != "v:"+k {
						return fmt.Errorf("unexpected value %q for %s", v, k)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if c.Len() > 256 {
		t.Fatalf("capacity exceeded: %d", c.Len())
	}
	if loads.Load() == 0 {
		t.Fatal("loader never ran")
	}
	checkInvariants(t, c)
}

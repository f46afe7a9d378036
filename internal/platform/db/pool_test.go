package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

func TestBoundAppliesStoreTimeout(t *testing.T) {
	p := &Pool{timeout: 50 * time.Millisecond}
	ctx, cancel := p.bound(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("expected a deadline when the store timeout is set")
	}

	p = &Pool{}
	ctx, cancel = p.bound(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero timeout should leave the context unbounded")
	}
}

type fakeRow struct{ err error }

func (f fakeRow) Scan(dest ...any) error { return f.err }

func TestBoundRowReleasesDeadlineAfterScan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	row := boundRow{row: fakeRow{}, cancel: cancel}
	if err := row.Scan(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	select {
	case <-ctx.Done():
	default:
		t.Fatal("scan should release the query deadline")
	}
}

type fakeRows struct{ pgx.Rows }

func (f fakeRows) Close() {}

func TestBoundRowsReleaseDeadlineOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rows := &boundRows{Rows: fakeRows{}, cancel: cancel}
	rows.Close()
	select {
	case <-ctx.Done():
	default:
		t.Fatal("close should release the query deadline")
	}
}

package core

import (
	"context"
	"reflect"
	"testing"
)

func TestLoadSession_CommitsEveryN(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{}

	s, err := openLoadSession(ctx, conn, 2)
	if err != nil {
		t.Fatalf("openLoadSession() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := s.Exec(ctx, "INSERT"); err != nil {
			t.Fatal(err)
		}
		if err := s.batchFlushed(ctx); err != nil {
			t.Fatalf("batchFlushed() error = %v", err)
		}
	}
	if err := s.commit(ctx); err != nil {
		t.Fatalf("commit() error = %v", err)
	}
	s.close(ctx)

	want := []string{
		"SET statement_timeout = 0",
		"SET synchronous_commit = off",
		"BEGIN",
		"INSERT", "INSERT", "COMMIT", "BEGIN",
		"INSERT", "INSERT", "COMMIT", "BEGIN",
		"INSERT", "COMMIT",
		"RESET ALL",
	}
	if !reflect.DeepEqual(conn.log, want) {
		t.Errorf("log =\n%v\nwant\n%v", conn.log, want)
	}
	if conn.released != 1 {
		t.Errorf("released = %d, want 1", conn.released)
	}
}

func TestLoadSession_CloseRollsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conn := &fakeConn{}

	s, err := openLoadSession(ctx, conn, 40)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Exec(ctx, "INSERT"); err != nil {
		t.Fatal(err)
	}
	cancel()
	s.close(ctx)

	want := []string{"SET statement_timeout = 0", "SET synchronous_commit = off", "BEGIN", "INSERT", "ROLLBACK", "RESET ALL"}
	if !reflect.DeepEqual(conn.log, want) {
		t.Errorf("log = %v, want %v", conn.log, want)
	}
	if _, err := s.Exec(ctx, "INSERT"); err == nil {
		t.Error("Exec() after close should fail")
	}
}

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/alicebob/miniredis/v2"
)

func testOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(context.Background(), testOptions(""), logger.Nop())
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnectSuccess(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), testOptions(mr.Addr()), logger.Nop())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer func() { _ = client.Close() }()
}

func TestConnectGivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	start := time.Now()
	_, err := Connect(context.Background(), testOptions(addr), logger.Nop())
	if err == nil {
		t.Fatal("Connect() should fail when redis is down")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Connect() took %v, want it bounded by ConnectTimeout", elapsed)
	}
}

func TestConnectInvalidOptions(t *testing.T) {
	opts := testOptions("localhost:6379")
	opts.RetryInterval = 0
	if _, err := Connect(context.Background(), opts, logger.Nop()); err == nil {
		t.Error("Connect() should reject a zero RetryInterval")
	}
}

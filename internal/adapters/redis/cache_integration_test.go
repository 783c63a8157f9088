//go:build integration

package redisad_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/domain"
)

func TestCache_RealRedis(t *testing.T) {
	// Start isolated Redis; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	c := redisad.New(addr, "", 0)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	if err := pool.Retry(func() error { return c.Ping(ctx) }); err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	reviews := []domain.Review{{User: "Ana", Text: "Lovely", Rating: 5}}
	if err := c.Set(ctx, "reviews:p1", reviews, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got []domain.Review
	ok, err := c.Get(ctx, "reviews:p1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Author() != "Ana" {
		t.Fatalf("unexpected reviews: %+v", got)
	}
}

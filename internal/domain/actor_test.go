package domain_test

import (
	"context"
	"sync"
	"testing"

	"go-recruitment-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestActingUser(t *testing.T) {
	t.Run("Should return the user established on the context", func(t *testing.T) {
		ctx := domain.WithActingUser(context.Background(), "user-123")
		assert.Equal(t, "user-123", domain.ActingUser(ctx))
	})

	t.Run("Should fall back to system actor when no user was set", func(t *testing.T) {
		assert.Equal(t, domain.SystemActor, domain.ActingUser(context.Background()))
	})

	t.Run("Should fall back to system actor for an empty user id", func(t *testing.T) {
		ctx := domain.WithActingUser(context.Background(), "")
		assert.Equal(t, domain.SystemActor, domain.ActingUser(ctx))
	})

	t.Run("Should keep identities isolated across concurrent contexts", func(t *testing.T) {
		users := []string{"alice", "bob", "carol", "dave"}
		var wg sync.WaitGroup
		for _, u := range users {
			wg.Add(1)
			go func(u string) {
				defer wg.Done()
				ctx := domain.WithActingUser(context.Background(), u)
				for i := 0; i < 100; i++ {
					assert.Equal(t, u, domain.ActingUser(ctx))
				}
			}(u)
		}
		wg.Wait()
	})
}

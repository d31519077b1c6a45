package resume

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedMemory(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	a := Scope(mem, "browser-a")
	b := Scope(mem, "browser-b")

	_, ok, err := a.Load(ctx, KeyPlanID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Save(ctx, KeyPlanID, "plan-1"))
	require.NoError(t, b.Save(ctx, KeyPlanID, "plan-2"))

	v, ok, err := a.Load(ctx, KeyPlanID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "plan-1", v)

	require.NoError(t, a.Forget(ctx, KeyPlanID))
	_, ok, _ = a.Load(ctx, KeyPlanID)
	assert.False(t, ok)

	v, _, _ = b.Load(ctx, KeyPlanID)
	assert.Equal(t, "plan-2", v)
}

func TestRedisKeys(t *testing.T) {
	r := NewRedis(goredis.NewClient(&goredis.Options{Addr: "localhost:0"}), "", 0)
	defer r.Close()
	assert.Equal(t, "lessonroom:resume:c1", r.hashKey("c1"))

	custom := NewRedis(goredis.NewClient(&goredis.Options{Addr: "localhost:0"}), "app", 0)
	defer custom.Close()
	assert.Equal(t, "app:c1", custom.hashKey("c1"))
}

func TestDialRedisRequiresAddr(t *testing.T) {
	_, err := DialRedis(context.Background(), RedisConfig{})
	assert.Error(t, err)
}

package credential

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cohereRecord(id, key string) Record {
	return Record{ID: id, Name: "cohereApi", Data: map[string]string{"cohereApiKey": key}}
}

func TestGetCredentialParam(t *testing.T) {
	rec := cohereRecord("a", "secret")

	assert.Equal(t, "secret", GetCredentialParam("cohereApiKey", rec))
	assert.Equal(t, "", GetCredentialParam("missing", rec))
	assert.Equal(t, "", GetCredentialParam("cohereApiKey", Record{}))
}

func TestRecord_MasksSecrets(t *testing.T) {
	rec := cohereRecord("a", "secret")

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"cohereApiKey":"***"`)
	assert.NotContains(t, rec.String(), "secret")
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(cohereRecord("a", "k1"))
	ctx := context.Background()

	rec, err := s.GetCredentialData(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "k1", rec.Data["cohereApiKey"])

	// 返回副本，修改不影响存储
	rec.Data["cohereApiKey"] = "changed"
	again, err := s.GetCredentialData(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "k1", again.Data["cohereApiKey"])

	s.Delete("a")
	_, err = s.GetCredentialData(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	first := NewMemoryStore(cohereRecord("a", "from-first"))
	second := NewMemoryStore(cohereRecord("a", "from-second"), cohereRecord("b", "only-second"))

	chain := Chain{first, nil, second}

	rec, err := chain.GetCredentialData(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "from-first", rec.Data["cohereApiKey"])

	rec, err = chain.GetCredentialData(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "only-second", rec.Data["cohereApiKey"])

	_, err = chain.GetCredentialData(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChain_StopsOnHardError(t *testing.T) {
	boom := errors.New("connection refused")
	failing := ResolverFunc(func(ctx context.Context, id string) (Record, error) {
		return Record{}, boom
	})
	chain := Chain{failing, NewMemoryStore(cohereRecord("a", "k"))}

	_, err := chain.GetCredentialData(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
}

func TestChain_OverrideWins(t *testing.T) {
	chain := Chain{NewMemoryStore(cohereRecord("a", "stored"))}
	ctx := WithOverride(context.Background(), cohereRecord("a", "override"))
	ctx = WithOverride(ctx, cohereRecord("z", "other"))

	rec, err := chain.GetCredentialData(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "override", rec.Data["cohereApiKey"])

	_, ok := OverrideFromContext(ctx, "z")
	assert.True(t, ok)
	_, ok = OverrideFromContext(context.Background(), "a")
	assert.False(t, ok)
	assert.Equal(t, context.Background(), WithOverride(context.Background(), Record{}))
}

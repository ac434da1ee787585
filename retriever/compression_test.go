package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/agentflow-nodes/testutil"
	"github.com/BaSui01/agentflow-nodes/testutil/fixtures"
	"github.com/BaSui01/agentflow-nodes/testutil/mocks"
	"github.com/BaSui01/agentflow-nodes/types"
)

func TestContextualCompressionRetriever_Retrieve(t *testing.T) {
	base := mocks.NewMockRetriever(fixtures.CapitalDocuments()).WithTopK(4)
	provider := mocks.NewMockRerankProvider()
	r := NewContextualCompressionRetriever(base, NewCohereRerank(provider, "", 3, 10))

	docs, err := r.Retrieve(testutil.TestContext(t), "capital of France")
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "paris", docs[0].ID)
	assert.Equal(t, []string{"capital of France"}, base.Queries())
	assert.Equal(t, 1, provider.CallCount())
	assert.Equal(t, 3, r.TopK())
	assert.Same(t, base, r.Base())
}

func TestContextualCompressionRetriever_BaseError(t *testing.T) {
	boom := errors.New("vector store down")
	base := mocks.NewMockRetriever(nil).WithError(boom)
	provider := mocks.NewMockRerankProvider()
	r := NewContextualCompressionRetriever(base, NewCohereRerank(provider, "", 3, 10))

	_, err := r.Retrieve(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, provider.CallCount())
}

func TestContextualCompressionRetriever_DoesNotMutateBase(t *testing.T) {
	original := fixtures.CapitalDocuments()
	base := mocks.NewMockRetriever(original).WithTopK(2)
	r := NewContextualCompressionRetriever(base, NewCohereRerank(mocks.NewMockRerankProvider(), "", 5, 10))

	_, err := r.Retrieve(context.Background(), "capital")
	require.NoError(t, err)

	assert.Equal(t, 2, base.TopK())
	assert.Equal(t, fixtures.CapitalDocuments(), original)
}

func TestTopKOf(t *testing.T) {
	plain := Func(func(ctx context.Context, query string) ([]types.Document, error) { return nil, nil })

	assert.Equal(t, 4, TopKOf(plain, 4))
	assert.Equal(t, 7, TopKOf(mocks.NewMockRetriever(nil).WithTopK(7), 4))
	assert.Equal(t, 4, TopKOf(mocks.NewMockRetriever(nil).WithTopK(0), 4))
}

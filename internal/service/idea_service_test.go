package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideabot-be/pkg/flow"
)

func newTestIdeaService() (IIdeaService, *memFactory) {
	factory := newMemFactory()
	return NewIdeaService(factory, nil, nopLogger{}), factory
}

func TestSubmitCreatesIdea(t *testing.T) {
	svc, factory := newTestIdeaService()
	scratch := flow.Scratch{Title: "Dark mode", Description: "A long description.", ImpactedUsers: 50}

	idea, origin, err := svc.Submit(context.Background(), "conn-1", "sess-1", scratch)

	require.NoError(t, err)
	assert.Equal(t, OriginNew, origin)
	assert.NotEmpty(t, idea.IdeaID)
	assert.Equal(t, "CHATBOT", idea.Source)
	assert.Equal(t, "New", idea.Status)
	assert.Len(t, factory.store.ideas, 1)
}

func TestSubmitSameAnswersReturnsExisting(t *testing.T) {
	svc, factory := newTestIdeaService()
	scratch := flow.Scratch{Title: "Dark mode", Description: "A long description.", ImpactedUsers: 50}

	first, _, err := svc.Submit(context.Background(), "conn-1", "sess-1", scratch)
	require.NoError(t, err)

	second, origin, err := svc.Submit(context.Background(), "conn-1", "sess-1", scratch)
	require.NoError(t, err)

	assert.Equal(t, OriginExisting, origin)
	assert.Equal(t, first.IdeaID, second.IdeaID)
	assert.Len(t, factory.store.ideas, 1)
}

func TestSubmitDifferentSessionsDiverge(t *testing.T) {
	svc, factory := newTestIdeaService()
	scratch := flow.Scratch{Title: "Dark mode", Description: "A long description.", ImpactedUsers: 50}

	a, _, err := svc.Submit(context.Background(), "conn-1", "sess-a", scratch)
	require.NoError(t, err)
	b, _, err := svc.Submit(context.Background(), "conn-1", "sess-b", scratch)
	require.NoError(t, err)

	assert.NotEqual(t, a.IdeaID, b.IdeaID)
	assert.Len(t, factory.store.ideas, 2)
}

func TestSubmitConcurrentDuplicatesResolveToOneRow(t *testing.T) {
	svc, factory := newTestIdeaService()
	scratch := flow.Scratch{Title: "Dark mode", Description: "A long description.", ImpactedUsers: 50}

	const workers = 16
	var wg sync.WaitGroup
	ideaIDs := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idea, _, err := svc.Submit(context.Background(), "conn-1", "sess-1", scratch)
			errs[i] = err
			if idea != nil {
				ideaIDs[i] = idea.IdeaID
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, factory.store.ideas, 1, "exactly one artifact must exist")
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ideaIDs[0], ideaIDs[i], "every caller must see the same idea")
	}
}

func TestIdempotencyKeyChangesWithAnswers(t *testing.T) {
	base := flow.Scratch{Title: "t", Description: "d", ImpactedUsers: 1}

	same := IdempotencyKey("sess", base)
	assert.Equal(t, same, IdempotencyKey("sess", base))

	changed := base
	changed.ImpactedUsers = 2
	assert.NotEqual(t, same, IdempotencyKey("sess", changed))
	assert.NotEqual(t, same, IdempotencyKey("other", base))
}

func TestListFiltersByConnection(t *testing.T) {
	svc, _ := newTestIdeaService()
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, "conn-1", "s1", flow.Scratch{Title: "a", Description: "desc one", ImpactedUsers: 1})
	require.NoError(t, err)
	_, _, err = svc.Submit(ctx, "conn-2", "s2", flow.Scratch{Title: "b", Description: "desc two", ImpactedUsers: 2})
	require.NoError(t, err)

	res, err := svc.List(ctx, "conn-1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Ideas, 1)
	assert.Equal(t, "a", res.Ideas[0].Title)
}

func TestGetUnknownIdeaReturnsNil(t *testing.T) {
	svc, _ := newTestIdeaService()

	res, err := svc.Get(context.Background(), "IDEA-MISSING")
	require.NoError(t, err)
	assert.Nil(t, res)
}

package taxonomy

import (
	"context"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"devmastery/internal/models"
)

// fakeRepo is an in-memory Repository. Each kind can be made to fail or to
// block until its context is done.
type fakeRepo struct {
	topics   []models.Topic
	blogs    []models.Blog
	notes    []models.Note
	problems []models.Problem

	blogErr, noteErr, problemErr error
	topicsErr                    error
	blockNotes                   bool

	mu     sync.Mutex
	scopes []Scope
}

func (f *fakeRepo) record(s Scope) {
	f.mu.Lock()
	f.scopes = append(f.scopes, s)
	f.mu.Unlock()
}

func (f *fakeRepo) ListBlogs(_ context.Context, s Scope) ([]models.Blog, error) {
	f.record(s)
	return f.blogs, f.blogErr
}

func (f *fakeRepo) ListNotes(ctx context.Context, s Scope) ([]models.Note, error) {
	f.record(s)
	if f.blockNotes {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.notes, f.noteErr
}

func (f *fakeRepo) ListProblems(_ context.Context, s Scope) ([]models.Problem, error) {
	f.record(s)
	return f.problems, f.problemErr
}

func (f *fakeRepo) ListTopics(context.Context) ([]models.Topic, error) {
	return f.topics, f.topicsErr
}

func (f *fakeRepo) FindTopicBySlug(_ context.Context, slug string) (*models.Topic, error) {
	for i := range f.topics {
		if f.topics[i].Slug == slug {
			t := f.topics[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindSubTopicBySlug(_ context.Context, topicSlug, subTopicSlug string) (*models.SubTopic, error) {
	t, _ := f.FindTopicBySlug(context.Background(), topicSlug)
	if t == nil {
		return nil, ErrTopicNotFound
	}
	for i := range t.SubTopics {
		if t.SubTopics[i].Slug == subTopicSlug {
			st := t.SubTopics[i]
			return &st, nil
		}
	}
	return nil, ErrSubTopicNotFound
}

func makeBlogs(n int) []models.Blog {
	out := make([]models.Blog, n)
	for i := range out {
		out[i] = models.Blog{
			Record:    models.Record{ID: uuid.New(), Title: "blog", CreatedAt: time.Now()},
			ReadTime:  5,
			Published: true,
		}
	}
	return out
}

func makeNotes(n int) []models.Note {
	out := make([]models.Note, n)
	for i := range out {
		out[i] = models.Note{Record: models.Record{ID: uuid.New(), Title: "note"}, Content: "body"}
	}
	return out
}

func makeProblems(n int) []models.Problem {
	out := make([]models.Problem, n)
	for i := range out {
		out[i] = models.Problem{Record: models.Record{ID: uuid.New(), Title: "problem"}, Difficulty: models.DifficultyMedium}
	}
	return out
}

// randomTopics builds a deterministic pseudo-random topic list for
// property checks.
func randomTopics(seed int64, n int) []models.Topic {
	f := gofakeit.New(seed)
	vocab := []string{"Java", "Python", "SQL", "Database", "Algorithms", "System Design", "Spring", "Graphs", "CSS", "Kafka"}

	topics := make([]models.Topic, n)
	for i := range topics {
		subs := make([]models.SubTopic, f.Number(0, 3))
		for j := range subs {
			subs[j] = models.SubTopic{
				ID:          uuid.New(),
				Name:        f.RandomString(vocab) + " " + f.Word(),
				Description: f.Sentence(4),
				Order:       j,
			}
		}
		topics[i] = models.Topic{
			ID:          uuid.New(),
			Name:        f.RandomString(vocab) + " " + f.Word(),
			Slug:        f.Word(),
			Description: f.Sentence(6),
			Order:       i,
			SubTopics:   subs,
			Count: models.Counts{
				Blogs:            f.Number(0, 20),
				Notes:            f.Number(0, 20),
				LeetcodeProblems: f.Number(0, 20),
			},
		}
	}
	return topics
}

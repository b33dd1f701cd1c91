package driven

import "context"

// CorpusWatcher reports changes to the corpus folder.
type CorpusWatcher interface {
	// Watch sends the changed file path on the returned channel until ctx is
	// cancelled or Close is called, after which the channel is closed.
	Watch(ctx context.Context, dir string) (<-chan string, error)

	// Close stops watching.
	Close() error
}

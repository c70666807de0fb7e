package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := Default()

	assert.Equal(t, "Mustafa Kanaan", p.Name)
	assert.Len(t, p.Experience, 3)
	assert.Len(t, p.Education, 2)
	assert.Len(t, p.Projects, 4)
	assert.Equal(t, []string{"OWASP"}, p.Skills["security"])
	assert.Equal(t, "https://github.com/mostafakanaan", p.Links["github"])
	assert.Equal(t, []string{"ar"}, p.Locales())
}

func TestLocalizedOverlay(t *testing.T) {
	p := Default()

	ar := p.Localized("ar")
	assert.Equal(t, "مصطفى كنعان", ar.Name)
	assert.Equal(t, "بوبكون", ar.Experience[0].Location)
	assert.Equal(t, p.Email, ar.Email, "fields without overlay keep the base value")
	assert.Equal(t, p.Quote, ar.Quote)
	assert.Nil(t, ar.I18n)

	de := p.Localized("de")
	assert.Equal(t, p.Name, de.Name)
	assert.Equal(t, p.Experience, de.Experience)

	// base untouched
	assert.Equal(t, "Mustafa Kanaan", p.Name)
	assert.Contains(t, p.I18n, "ar")
}

func TestParseRejectsNamelessProfile(t *testing.T) {
	_, err := Parse([]byte("title: nobody"))
	assert.ErrorContains(t, err, "no name")

	_, err = Parse([]byte("name: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse profile")
}

func TestStoreEmbedded(t *testing.T) {
	s, err := NewStore("", nil)
	require.NoError(t, err)
	assert.Equal(t, "Mustafa Kanaan", s.Get().Name)
	assert.NoError(t, s.Reload())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Watch(ctx))
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada"), 0o644))

	s, err := NewStore(path, nil)
	require.NoError(t, err)

	var seen []string
	s.OnChange(func(p *Profile) { seen = append(seen, p.Name) })

	require.NoError(t, os.WriteFile(path, []byte("name: Grace"), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, "Grace", s.Get().Name)

	require.NoError(t, os.WriteFile(path, []byte("name: ["), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, "Grace", s.Get().Name)
	assert.Equal(t, []string{"Grace"}, seen)
}

func TestStoreMissingFile(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read profile")
}

func TestStoreWatchPicksUpWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada"), 0o644))

	s, err := NewStore(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// The watcher registers asynchronously, so the write is repeated. Each
	// write restarts the debounce timer; polling slower than reloadDebounce
	// lets the reload land between writes.
	require.Eventually(t, func() bool {
		if s.Get().Name == "Grace" {
			return true
		}
		_ = os.WriteFile(path, []byte("name: Grace"), 0o644)
		return false
	}, 5*time.Second, 3*reloadDebounce)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, root, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, "js")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	target := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(target, []byte(content), 0o600))
	return target
}

func TestRemoveBadge(t *testing.T) {
	t.Run("patches runtime scripts containing the badge", func(t *testing.T) {
		root := t.TempDir()
		target := writeScript(t, root, "webflow.js",
			`e.className='w-webflow-badge';var m='class="w-webflow-badge"';`+
				`if(/\.webflow\.io$/i.test(h)&&x){y()}if(a){i&&e.remove();}`)

		require.NoError(t, RemoveBadge(root, zap.NewNop()))

		patched, err := os.ReadFile(target)
		require.NoError(t, err)
		require.NotContains(t, string(patched), `/\.webflow\.io$/i.test(h)`)
		require.Contains(t, string(patched), `false&&x`)
		require.Contains(t, string(patched), `if(true){i&&e.remove();`)
	})

	t.Run("leaves unrelated scripts untouched", func(t *testing.T) {
		root := t.TempDir()
		content := `if(/\.webflow\.io$/i.test(h)){track()}`
		target := writeScript(t, root, "analytics.js", content)

		require.NoError(t, RemoveBadge(root, zap.NewNop()))

		unchanged, err := os.ReadFile(target)
		require.NoError(t, err)
		require.Equal(t, content, string(unchanged))
	})

	t.Run("missing js directory is not an error", func(t *testing.T) {
		require.NoError(t, RemoveBadge(t.TempDir(), zap.NewNop()))
	})
}

package export

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// badgeMarker identifies Webflow runtime scripts that inject the hosted-site
// badge into the page.
const badgeMarker = `class="w-webflow-badge"`

// badgePatches are the known textual substitutions that disable the badge
// injection paths in the runtime script.
var badgePatches = [][2]string{
	{`/\.webflow\.io$/i.test(h)`, `false`},
	{`if(a){i&&e.remove();`, `if(true){i&&e.remove();`},
}

// RemoveBadge patches mirrored runtime scripts so the Webflow badge is not
// rendered by the offline copy.
func RemoveBadge(root string, logger *zap.Logger) error {
	jsDir := filepath.Join(root, "js")
	if _, err := os.Stat(jsDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(jsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".js") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script %s: %w", path, err)
		}
		content := string(raw)
		if !strings.Contains(content, badgeMarker) {
			return nil
		}

		logger.Info("removing badge from script", zap.String("path", path))
		for _, patch := range badgePatches {
			content = strings.ReplaceAll(content, patch[0], patch[1])
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return fmt.Errorf("write script %s: %w", path, err)
		}
		return nil
	})
}

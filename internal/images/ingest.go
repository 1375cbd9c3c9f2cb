package images

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"vehicle-catalog/internal/model"
	"vehicle-catalog/pkg/fsutils"
)

// PublicPrefix is the URL prefix under which persisted payload files are
// served by the static file handler.
const PublicPrefix = "/uploads"

// inlinePayloadPattern matches an inline encoded image payload of the form
// <mime-type>;base64,<data>, with an optional data: scheme prefix as sent by
// browser FileReader APIs.
var inlinePayloadPattern = regexp.MustCompile(`^(?:data:)?([a-zA-Z0-9.+-]+)/([a-zA-Z0-9.+-]+);base64,(.*)$`)

// Ingestor resolves incoming image inputs into stable image references.
// External URLs pass through verbatim; inline base64 payloads are decoded
// and persisted as files under Dir.
type Ingestor struct {
	// Dir is the directory payload files are written to.
	Dir string

	logger *slog.Logger
}

// NewIngestor creates an Ingestor and ensures the uploads directory exists.
func NewIngestor(dir string, logger *slog.Logger) (*Ingestor, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := fsutils.CreateDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %q: %w", dir, err)
	}
	return &Ingestor{Dir: dir, logger: logger}, nil
}

// isInline reports whether src claims to be an inline encoded payload rather
// than a plain URL. Anything that claims to be inline but fails to parse is
// an error, never a passthrough.
func isInline(src string) bool {
	return strings.HasPrefix(src, "data:") || strings.Contains(src, ";base64,")
}

// Resolve turns one image input into a stable reference string. index is the
// position of the input within the request's images sequence and becomes part
// of the generated filename. Any src carrying the data: scheme or the
// ;base64, marker is committed to the inline path: an external URL that
// happens to embed that marker is rejected as malformed, never passed through.
func (ing *Ingestor) Resolve(input model.ImageInput, index int) (string, error) {
	src := strings.TrimSpace(input.Src)
	if !isInline(src) {
		// External URL reference: stored verbatim, no fetch, no
		// reachability check.
		return src, nil
	}

	m := inlinePayloadPattern.FindStringSubmatch(src)
	if m == nil {
		return "", fmt.Errorf("%w: malformed payload tag", model.ErrInvalidImage)
	}
	subtype, encoded := m[2], m[3]

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	// Time component plus positional index keeps names collision-resistant
	// within and across requests; the extension comes from the MIME subtype.
	name := fmt.Sprintf("%d-%d.%s", time.Now().UnixNano(), index, fsutils.SanitizeFilename(subtype))
	filePath := filepath.Join(ing.Dir, name)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write payload file %q: %w", filePath, err)
	}

	ing.logger.Debug("persisted inline image payload", "file", filePath, "bytes", len(data))
	return path.Join(PublicPrefix, name), nil
}

// ResolveAll resolves every image input in order. On any failure it removes
// the payload files already written for this request, so a partially failed
// create never leaves orphaned files behind.
func (ing *Ingestor) ResolveAll(inputs []model.ImageInput) ([]string, error) {
	refs := make([]string, 0, len(inputs))
	for i, input := range inputs {
		ref, err := ing.Resolve(input, i)
		if err != nil {
			ing.RemoveAll(refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// IsLocal reports whether ref points to a locally persisted payload file
// rather than an external URL.
func (ing *Ingestor) IsLocal(ref string) bool {
	return strings.HasPrefix(ref, PublicPrefix+"/")
}

// Remove deletes the payload file behind a local reference. External URLs
// and already-missing files are no-ops, not errors.
func (ing *Ingestor) Remove(ref string) error {
	if !ing.IsLocal(ref) {
		return nil
	}
	filePath := filepath.Join(ing.Dir, path.Base(ref))
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove payload file %q: %w", filePath, err)
	}
	return nil
}

// RemoveAll removes the payload files behind the given references,
// logging rather than failing on individual errors.
func (ing *Ingestor) RemoveAll(refs []string) {
	for _, ref := range refs {
		if err := ing.Remove(ref); err != nil {
			ing.logger.Warn("failed to remove payload file", "ref", ref, "error", err)
		}
	}
}

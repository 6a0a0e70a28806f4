// Package pathtemplate expands recording directory templates such as
// "%DATE%/%SOURCE%" below a base directory.
package pathtemplate

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	TokenDate   = "%DATE%"
	TokenSource = "%SOURCE%"

	DefaultTemplate = TokenDate + "/" + TokenSource
	UnknownSource   = "UnknownSource"

	dateLayout = "2006-01-02"
	dirPerm    = 0o755
)

// Values supplies the inputs read fresh on every expansion.
type Values interface {
	SelectedSource() string
	PathTemplate() string
}

type Expander struct {
	Values   Values
	Now      func() time.Time
	MkdirAll func(path string, perm os.FileMode) error
}

func NewExpander(values Values) *Expander {
	return &Expander{
		Values:   values,
		Now:      time.Now,
		MkdirAll: os.MkdirAll,
	}
}

// Validate rejects templates that would not place recordings below the base
// directory.
func Validate(template string) error {
	if strings.TrimSpace(template) == "" {
		return errors.New("path template is empty")
	}
	if !strings.Contains(template, TokenDate) && !strings.Contains(template, TokenSource) {
		return errors.Errorf("path template %q contains neither %s nor %s", template, TokenDate, TokenSource)
	}
	if filepath.IsAbs(template) || strings.HasPrefix(template, "/") {
		return errors.Errorf("path template %q must be relative", template)
	}
	return nil
}

func (e *Expander) sourceName() string {
	if e.Values == nil {
		return UnknownSource
	}
	if name := e.Values.SelectedSource(); name != "" {
		return name
	}
	return UnknownSource
}

func (e *Expander) template() string {
	if e.Values == nil {
		return DefaultTemplate
	}
	if t := e.Values.PathTemplate(); t != "" {
		return t
	}
	return DefaultTemplate
}

// Suffix substitutes the tokens of the template in a single pass. Substituted
// values are not rescanned, so a source named "%DATE%" stays literal.
func (e *Expander) Suffix() string {
	r := strings.NewReplacer(
		TokenSource, e.sourceName(),
		TokenDate, e.Now().Local().Format(dateLayout),
	)
	return r.Replace(e.template())
}

// Expand joins base with the expanded suffix, creates the directory tree and
// returns the joined path. Existing directories are not an error.
func (e *Expander) Expand(base string) (string, error) {
	full := filepath.Join(base, filepath.FromSlash(e.Suffix()))
	if err := e.MkdirAll(full, dirPerm); err != nil {
		return "", errors.Wrapf(err, "create recording directory %s", full)
	}
	return full, nil
}

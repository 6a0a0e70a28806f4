package sourceselect

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/host"
	"github.com/hrko/obs-dynamic-path/internal/settings"
)

const PropertyDescription = "Source for Folder Naming"

// Callback backs the "selected_source" list property.
type Callback struct {
	settings *settings.Settings
	lister   host.SourceLister
	log      *zap.Logger
}

func New(s *settings.Settings, lister host.SourceLister, log *zap.Logger) *Callback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Callback{
		settings: s,
		lister:   lister,
		log:      log,
	}
}

// Choices lists the sources the user may pick from. Only inputs qualify.
func (c *Callback) Choices(ctx context.Context) ([]host.Source, error) {
	if c.lister == nil {
		return nil, errors.New("no source lister configured")
	}
	sources, err := c.lister.ListSources(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list sources")
	}
	return FilterInputs(sources), nil
}

func FilterInputs(sources []host.Source) []host.Source {
	inputs := make([]host.Source, 0, len(sources))
	for _, src := range sources {
		if src.Type == host.SourceTypeInput {
			inputs = append(inputs, src)
		}
	}
	return inputs
}

// Modified stores the selected source from a properties change. A missing key
// reads as the empty string, which the templater maps to its sentinel.
func (c *Callback) Modified(values map[string]string) {
	name := values[settings.KeySelectedSource]
	prev := c.settings.SelectedSource()
	c.settings.SetSelectedSource(name)
	if prev != name {
		c.log.Info("selected source changed", zap.String("from", prev), zap.String("to", name))
	}
}

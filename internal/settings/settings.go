package settings

import (
	"github.com/fufuok/cmap"
)

const (
	KeySelectedSource = "selected_source"
	KeyPathTemplate   = "path_template"
)

// Settings is the plugin's property store. It plays the role obs_data_t plays for
// a native module: a flat string map shared between the properties callbacks and
// the frontend event handler.
type Settings struct {
	values *cmap.MapOf[string, string]
}

func New() *Settings {
	return &Settings{
		values: cmap.NewOf[string, string](),
	}
}

func (s *Settings) GetString(key string) string {
	v, _ := s.values.Get(key)
	return v
}

func (s *Settings) SetString(key, value string) {
	s.values.Set(key, value)
}

// SetDefault stores value only if key has never been set.
func (s *Settings) SetDefault(key, value string) {
	s.values.SetIfAbsent(key, value)
}

func (s *Settings) SelectedSource() string {
	return s.GetString(KeySelectedSource)
}

func (s *Settings) SetSelectedSource(name string) {
	s.SetString(KeySelectedSource, name)
}

func (s *Settings) PathTemplate() string {
	return s.GetString(KeyPathTemplate)
}

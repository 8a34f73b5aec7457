package settings

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

var ErrInvalidValue = errors.New("invalid setting value")

// Setting is one stored value
type Setting struct {
	Key         string             `json:"key"`
	Value       string             `json:"value"`
	Scope       types.SettingScope `json:"scope"`
	Description string             `json:"description,omitempty"`
	Default     string             `json:"default"`
	// Allowed lists accepted values; empty accepts anything
	Allowed []string `json:"allowed,omitempty"`
}

type watcher struct {
	id uint64
	cb func(value string)
}

// Provider is the settings store. Values are strings; watchers registered
// for a key are called, outside any lock, whenever its value changes.
type Provider struct {
	cache sync.Map // scoped key -> Setting

	mu       sync.Mutex
	watchers map[string][]watcher // Protected by mu
	nextID   uint64               // Protected by mu

	logger *zap.Logger
}

// NewProvider creates a store holding the default global settings
func NewProvider(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{
		watchers: make(map[string][]watcher),
		logger:   logger.Named("settings"),
	}
	p.initializeDefaults()
	return p
}

func (p *Provider) initializeDefaults() {
	defaults := []Setting{
		{
			Key:         types.SettingTimeFormat,
			Value:       types.TimeFormat24,
			Scope:       types.ScopeGlobal,
			Description: "Clock format",
			Default:     types.TimeFormat24,
			Allowed:     []string{types.TimeFormat12, types.TimeFormat24},
		},
		{
			Key:         types.SettingLockPasscodeEnabled,
			Value:       types.SettingOff,
			Scope:       types.ScopeGlobal,
			Description: "Require passcode to unlock",
			Default:     types.SettingOff,
			Allowed:     []string{types.SettingOn, types.SettingOff},
		},
	}

	for _, s := range defaults {
		p.cache.Store(scopedKey(s.Key, s.Scope), s)
	}
}

// Get returns the value stored under key
func (p *Provider) Get(key string, scope types.SettingScope) (string, bool) {
	val, ok := p.cache.Load(scopedKey(key, scope))
	if !ok {
		return "", false
	}
	return val.(Setting).Value, true
}

// Set stores value under key and notifies watchers if it changed
func (p *Provider) Set(key, value string, scope types.SettingScope) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidValue)
	}

	sk := scopedKey(key, scope)
	setting := Setting{Key: key, Scope: scope}
	if val, ok := p.cache.Load(sk); ok {
		setting = val.(Setting)
	}

	if len(setting.Allowed) > 0 && !contains(setting.Allowed, value) {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
	}

	changed := setting.Value != value
	setting.Value = value
	p.cache.Store(sk, setting)

	p.logger.Debug("setting stored",
		zap.String("key", key),
		zap.Stringer("scope", scope),
		zap.Bool("changed", changed),
	)

	if changed {
		p.notify(sk, value)
	}
	return nil
}

// Reset restores the default value of key
func (p *Provider) Reset(key string, scope types.SettingScope) error {
	val, ok := p.cache.Load(scopedKey(key, scope))
	if !ok {
		return fmt.Errorf("setting not found: %s", key)
	}
	return p.Set(key, val.(Setting).Default, scope)
}

// Register calls cb with every new value of key. The returned function
// removes the watcher.
func (p *Provider) Register(key string, scope types.SettingScope, cb func(value string)) func() {
	sk := scopedKey(key, scope)

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.watchers[sk] = append(p.watchers[sk], watcher{id: id, cb: cb})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		list := p.watchers[sk]
		for i, w := range list {
			if w.id == id {
				p.watchers[sk] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(p.watchers[sk]) == 0 {
			delete(p.watchers, sk)
		}
	}
}

// Watchers returns how many watchers key has
func (p *Provider) Watchers(key string, scope types.SettingScope) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.watchers[scopedKey(key, scope)])
}

func (p *Provider) notify(sk, value string) {
	p.mu.Lock()
	list := append([]watcher(nil), p.watchers[sk]...)
	p.mu.Unlock()

	for _, w := range list {
		w.cb(value)
	}
}

// List returns every setting in scope sorted by key
func (p *Provider) List(scope types.SettingScope) []Setting {
	var settings []Setting
	p.cache.Range(func(_, value interface{}) bool {
		s := value.(Setting)
		if s.Scope == scope {
			settings = append(settings, s)
		}
		return true
	})
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings
}

// Export writes every setting as JSON
func (p *Provider) Export(w io.Writer) error {
	all := append(p.List(types.ScopeGlobal), p.List(types.ScopeAppLocal)...)
	data, err := sonic.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Import reads settings written by Export. Values are applied through Set,
// so watchers see the changes. It returns how many values were applied.
func (p *Provider) Import(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	var settings []Setting
	if err := sonic.Unmarshal(data, &settings); err != nil {
		return 0, fmt.Errorf("failed to parse settings: %w", err)
	}

	count := 0
	var errs []error
	for _, s := range settings {
		if err := p.Set(s.Key, s.Value, s.Scope); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}
	return count, errors.Join(errs...)
}

func scopedKey(key string, scope types.SettingScope) string {
	return scope.String() + "/" + key
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

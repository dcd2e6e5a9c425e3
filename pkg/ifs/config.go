package ifs

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// DataProperties is a flat key -> value configuration store with typed
// accessors. Keys recognized by core components are documented on the
// constants in this package (e.g. KeyHillClimberMaxIdleIters).
type DataProperties struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewDataProperties returns an empty DataProperties store.
func NewDataProperties() *DataProperties {
	return &DataProperties{values: make(map[string]string)}
}

// Set stores a raw string value under key.
func (p *DataProperties) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

// replace swaps the entire backing map, used by fsnotify-driven reload.
func (p *DataProperties) replace(values map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = values
}

func (p *DataProperties) raw(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

// GetString returns the string value of key, or def if absent.
func (p *DataProperties) GetString(key, def string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return def
}

// GetBool returns the boolean value of key, or def if absent or
// unparseable.
func (p *DataProperties) GetBool(key string, def bool) bool {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetInt returns the int value of key, or def if absent or unparseable.
func (p *DataProperties) GetInt(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetLong returns the int64 value of key, or def if absent or
// unparseable. Kept as a distinct accessor from GetInt for configuration
// values that need the full int64 range.
func (p *DataProperties) GetLong(key string, def int64) int64 {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// GetDouble returns the float64 value of key, or def if absent or
// unparseable.
func (p *DataProperties) GetDouble(key string, def float64) float64 {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// LoadYAML parses a YAML document (flat or nested) into the property
// store, flattening nested maps with "." as a separator (e.g.
// "simulatedAnnealing: {coolingRate: 0.95}" becomes key
// "simulatedAnnealing.coolingRate"). This is the on-disk configuration
// format components load via DataProperties.
func (p *DataProperties) LoadYAML(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "ifs: failed to parse configuration YAML")
	}
	flat := make(map[string]string)
	flattenYAML("", raw, flat)
	p.replace(flat)
	return nil
}

// LoadYAMLFile reads path and loads it via LoadYAML.
func (p *DataProperties) LoadYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "ifs: failed to read configuration file %q", path)
	}
	return p.LoadYAML(data)
}

func flattenYAML(prefix string, in map[string]interface{}, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flattenYAML(key, val, out)
		case map[interface{}]interface{}:
			nested := make(map[string]interface{}, len(val))
			for nk, nv := range val {
				nested[fmt.Sprintf("%v", nk)] = nv
			}
			flattenYAML(key, nested, out)
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
}

// Decode populates dst (a pointer to a struct) from the property store
// using github.com/mitchellh/mapstructure to turn loosely-typed maps into
// typed Go structs. Struct field names are matched case-insensitively
// against property keys unless a `mapstructure:"..."` tag says otherwise.
func (p *DataProperties) Decode(dst interface{}) error {
	p.mu.RLock()
	input := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		input[k] = v
	}
	p.mu.RUnlock()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return errors.Wrap(err, "ifs: failed to build configuration decoder")
	}
	return decoder.Decode(input)
}

// WatchFile watches path for writes and reloads the property store on
// change, logging at Info level via log. It never persists state back to
// disk (Non-goal: persistent state across runs) — this is a read-only,
// best-effort hot-reload. The returned stop function closes the watcher;
// callers should defer it.
func (p *DataProperties) WatchFile(path string, log logrus.FieldLogger) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "ifs: failed to start configuration watcher")
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "ifs: failed to watch configuration file %q", path)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := p.LoadYAMLFile(path); err != nil {
					log.WithError(err).Warn("ifs: configuration reload failed, keeping previous values")
					continue
				}
				log.WithField("path", path).Info("ifs: configuration reloaded")
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(werr).Warn("ifs: configuration watcher error")
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

// Recognized configuration keys.
const (
	KeyConstructionClass         = "Construction.Class"
	KeyConstructionUntilComplete = "Construction.UntilComplete"
	KeySearchGreatDeluge         = "Search.GreatDeluge"
	KeySearchCountSteps          = "Search.CountSteps"
	KeyHillClimberMaxIdleIters   = "HillClimber.MaxIdleIters"
	KeySAInitialTemperature      = "SimulatedAnnealing.InitialTemperature"
	KeySACoolingRate             = "SimulatedAnnealing.CoolingRate"
	KeySATemperatureLength       = "SimulatedAnnealing.TemperatureLength"
	KeySAReheatLengthCoef        = "SimulatedAnnealing.ReheatLengthCoef"
	KeySAReheatRate              = "SimulatedAnnealing.ReheatRate"
	KeySARestoreBestLengthCoef   = "SimulatedAnnealing.RestoreBestLengthCoef"
	KeyGreatDelugeCoolRate       = "GreatDeluge.CoolRate"
	KeyGreatDelugeUpperBoundRate = "GreatDeluge.UpperBoundRate"
	KeyGreatDelugeLowerBoundRate = "GreatDeluge.LowerBoundRate"
	KeyBranchAndBoundTimeout     = "Neighbour.BranchAndBoundTimeout"
	KeyBranchAndBoundMinimizePen = "Neighbour.BranchAndBoundMinimizePenalty"
	KeyBranchAndBoundOrder       = "Neighbour.BranchAndBoundOrder"
)

package profile

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// SiteStats is the observable state of one call site at the end of a run.
type SiteStats struct {
	Name          string `yaml:"name"`
	State         string `yaml:"state"`
	Calls         int64  `yaml:"calls"`
	Hits          int64  `yaml:"hits"`
	Misses        int64  `yaml:"misses"`
	Invalidations int64  `yaml:"invalidations"`
	InlinedCalls  int64  `yaml:"inlined_calls"`
}

// Snapshot is the speculation profile of one program run.
type Snapshot struct {
	RunID     uuid.UUID        `yaml:"run_id"`
	Program   string           `yaml:"program"`
	StartedAt time.Time        `yaml:"started_at"`
	Duration  time.Duration    `yaml:"duration"`
	Result    string           `yaml:"result"`
	Counters  map[string]int64 `yaml:"counters"`
	Sites     []SiteStats      `yaml:"sites,omitempty"`
}

// NewSnapshot captures the counters of r for a run of program that began
// at started.
func NewSnapshot(program string, started time.Time, r *Recorder) *Snapshot {
	return &Snapshot{
		RunID:     uuid.New(),
		Program:   program,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
		Counters:  r.Counters(),
	}
}

// Counter is one named event count.
type Counter struct {
	Name  string
	Count int64
}

// Nonzero returns the counters that fired, in event order.
func (s *Snapshot) Nonzero() []Counter {
	order := make(map[string]int, numEvents)
	for _, e := range Events() {
		order[e.String()] = int(e)
	}
	var out []Counter
	for name, n := range s.Counters {
		if n != 0 {
			out = append(out, Counter{Name: name, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i].Name]
		oj, jok := order[out[j].Name]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

func ParseYAML(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &s, nil
}

// ToStruct renders the snapshot as a protobuf Struct. Times are RFC 3339
// strings and the duration is in nanoseconds.
func (s *Snapshot) ToStruct() (*structpb.Struct, error) {
	counters := make(map[string]any, len(s.Counters))
	for name, n := range s.Counters {
		counters[name] = n
	}
	sites := make([]any, len(s.Sites))
	for i, st := range s.Sites {
		sites[i] = map[string]any{
			"name":          st.Name,
			"state":         st.State,
			"calls":         st.Calls,
			"hits":          st.Hits,
			"misses":        st.Misses,
			"invalidations": st.Invalidations,
			"inlined_calls": st.InlinedCalls,
		}
	}
	return structpb.NewStruct(map[string]any{
		"run_id":      s.RunID.String(),
		"program":     s.Program,
		"started_at":  s.StartedAt.Format(time.RFC3339Nano),
		"duration_ns": int64(s.Duration),
		"result":      s.Result,
		"counters":    counters,
		"sites":       sites,
	})
}

// FromStruct is the inverse of ToStruct.
func FromStruct(st *structpb.Struct) (*Snapshot, error) {
	f := st.GetFields()
	id, err := uuid.Parse(f["run_id"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("invalid run_id: %w", err)
	}
	started, err := time.Parse(time.RFC3339Nano, f["started_at"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("invalid started_at: %w", err)
	}
	s := &Snapshot{
		RunID:     id,
		Program:   f["program"].GetStringValue(),
		StartedAt: started,
		Duration:  time.Duration(f["duration_ns"].GetNumberValue()),
		Result:    f["result"].GetStringValue(),
		Counters:  make(map[string]int64),
	}
	for name, v := range f["counters"].GetStructValue().GetFields() {
		s.Counters[name] = int64(v.GetNumberValue())
	}
	for _, v := range f["sites"].GetListValue().GetValues() {
		sf := v.GetStructValue().GetFields()
		s.Sites = append(s.Sites, SiteStats{
			Name:          sf["name"].GetStringValue(),
			State:         sf["state"].GetStringValue(),
			Calls:         int64(sf["calls"].GetNumberValue()),
			Hits:          int64(sf["hits"].GetNumberValue()),
			Misses:        int64(sf["misses"].GetNumberValue()),
			Invalidations: int64(sf["invalidations"].GetNumberValue()),
			InlinedCalls:  int64(sf["inlined_calls"].GetNumberValue()),
		})
	}
	return s, nil
}

func (s *Snapshot) JSON() ([]byte, error) {
	st, err := s.ToStruct()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}

func ParseJSON(data []byte) (*Snapshot, error) {
	var st structpb.Struct
	if err := protojson.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return FromStruct(&st)
}

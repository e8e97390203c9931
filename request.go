package reqgate

import (
	json "github.com/goccy/go-json"
)

// Request is the linear handle for one in-progress construction attempt. It
// owns one state vector plus the partially filled payload. Every successful
// Set consumes the receiver and returns a fresh handle; reusing a consumed
// handle fails with ErrStaleRequest. Abandoning an attempt is simply dropping
// the handle; there is nothing to unwind.
type Request struct {
	plan    *Plan
	st      state
	payload map[string]any
	stale   bool
}

// NewRequest yields the initial all-unset state for one construction attempt.
func (p *Plan) NewRequest() *Request {
	return &Request{plan: p, st: newState(p.lay.size), payload: map[string]any{}}
}

// Set supplies a value for field and returns the successor handle, consuming
// the receiver; callers must continue with the returned handle. A rejected
// Set (unknown or skipped field) leaves the receiver live, like a failed
// Build. Setting a grouped field advances its slot in every group it belongs
// to. Setting a field twice overwrites the value and leaves the state
// unchanged.
func (r *Request) Set(field string, value any) (*Request, error) {
	if r.stale {
		return nil, ErrStaleRequest
	}
	pos, ok := r.plan.byName[field]
	if !ok {
		return nil, Issues{errIssue("/"+field, CodeUnknownField,
			"no such field declared", map[string]any{"field": field})}
	}
	fs := &r.plan.fields[pos]
	if fs.Kind == KindSkipped {
		return nil, Issues{errIssue("/"+field, CodeSkippedField,
			"skipped fields have no setter", map[string]any{"field": field})}
	}

	st := r.st
	switch fs.Kind {
	case KindMandatory, KindOptional:
		st = st.set(r.plan.lay.fieldSlot[fs.Index])
	case KindGrouped:
		for _, g := range fs.Groups {
			st = st.set(r.plan.lay.groupSlot[fs.Index][g])
		}
	}

	payload := make(map[string]any, len(r.payload)+1)
	for k, v := range r.payload {
		payload[k] = v
	}
	payload[field] = value

	r.stale = true
	return &Request{plan: r.plan, st: st, payload: payload}, nil
}

// Supplied reports whether the field has been supplied on this attempt.
func (r *Request) Supplied(field string) bool {
	pos, ok := r.plan.byName[field]
	if !ok {
		return false
	}
	fs := &r.plan.fields[pos]
	switch fs.Kind {
	case KindMandatory, KindOptional:
		return r.st.isSet(r.plan.lay.fieldSlot[fs.Index])
	case KindGrouped:
		// slots advance in lockstep; any one of them answers
		if len(fs.Groups) > 0 {
			return r.st.isSet(r.plan.lay.groupSlot[fs.Index][fs.Groups[0]])
		}
	}
	return false
}

// Build runs the admission check. On success it returns the payload and
// consumes the handle. On failure the verdict lists every missing mandatory
// field and every violated group, and the handle stays live so the caller
// can keep supplying values and retry.
func (r *Request) Build() (map[string]any, error) {
	if r.stale {
		return nil, ErrStaleRequest
	}
	if iss := canBuild(r.st, r.plan.lay, r.plan.sol); iss != nil {
		return nil, iss
	}
	r.stale = true
	return r.payload, nil
}

// BuildAs finalizes like Build and projects the payload into dst, which must
// be a non-nil pointer to a struct with matching json tags.
func (r *Request) BuildAs(dst any) error {
	m, err := r.Build()
	if err != nil {
		return err
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

package core

// Assign links p and v exclusively to each other. Any previous partner of
// either side is released first, so a link is never left pointing one way.
//
// Assign(p, nil) releases p's vehicle; Assign(nil, v) releases v's
// participant. Assigning an already linked pair is a no-op.
func Assign(p *Participant, v *Vehicle) {
	switch {
	case p == nil && v == nil:
		return
	case p == nil:
		release(v.participant, v)
		return
	case v == nil:
		release(p, p.vehicle)
		return
	}

	if p.vehicle == v && v.participant == p {
		return
	}
	release(p, p.vehicle)
	release(v.participant, v)

	p.vehicle = v
	v.participant = p
}

// release clears the link between p and v when they point at each other,
// and any one-sided pointer either holds to the other.
func release(p *Participant, v *Vehicle) {
	if p != nil && p.vehicle == v {
		p.vehicle = nil
	}
	if v != nil && v.participant == p {
		v.participant = nil
	}
}

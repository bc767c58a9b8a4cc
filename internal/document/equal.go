package document

// Equal reports whether two scenes hold exactly the same layers, objects,
// faces, instances and cursor. Nil and empty lists compare equal.
func Equal(a, b *Scene) bool {
	return a.Cursor == b.Cursor && compare(a, b,
		func(x, y Face) bool { return x == y },
		func(x, y Instance) bool { return x == y },
	)
}

// ApproxEqual is Equal with positions, instance transforms and cursor
// compared within eps, for edits that go through trigonometry.
func ApproxEqual(a, b *Scene, eps float32) bool {
	epsSq := eps * eps
	if a.Cursor.Position.DistanceSq(b.Cursor.Position) > epsSq {
		return false
	}
	return compare(a, b,
		func(x, y Face) bool {
			for i := range x.Positions {
				if x.Positions[i].DistanceSq(y.Positions[i]) > epsSq {
					return false
				}
			}
			return x.UVs == y.UVs && x.Colors == y.Colors && x.Hidden == y.Hidden
		},
		func(x, y Instance) bool {
			r := x.Rotation.Dot(y.Rotation)
			return x.Position.DistanceSq(y.Position) <= epsSq &&
				x.Scale.DistanceSq(y.Scale) <= epsSq &&
				r*r >= 1-eps
		},
	)
}

func compare(a, b *Scene, faceEq func(x, y Face) bool, instEq func(x, y Instance) bool) bool {
	if a.Cursor.GridSize != b.Cursor.GridSize || len(a.Layers) != len(b.Layers) {
		return false
	}
	for li, la := range a.Layers {
		lb := b.Layers[li]
		if la.Name != lb.Name || la.Visible != lb.Visible || len(la.Objects) != len(lb.Objects) {
			return false
		}
		for oi, oa := range la.Objects {
			ob := lb.Objects[oi]
			if oa.Name != ob.Name || len(oa.Faces) != len(ob.Faces) || len(oa.Instances) != len(ob.Instances) {
				return false
			}
			for fi := range oa.Faces {
				if !faceEq(oa.Faces[fi], ob.Faces[fi]) {
					return false
				}
			}
			for ii := range oa.Instances {
				if !instEq(oa.Instances[ii], ob.Instances[ii]) {
					return false
				}
			}
		}
	}
	return true
}

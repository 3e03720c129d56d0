package math

// TransformCreate returns an identity transform with no parent.
func TransformCreate() *Transform {
	return TransformFromPositionRotation(NewVec3Zero(), NewVec3Zero())
}

func TransformFromPosition(position Vec3) *Transform {
	return TransformFromPositionRotation(position, NewVec3Zero())
}

func TransformFromPositionRotation(position Vec3, rotation Vec3) *Transform {
	t := &Transform{Local: NewMat4Identity()}
	t.SetPositionRotationScale(position, rotation, NewVec3One())
	return t
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation Vec3, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

// GetLocal returns scale, then rotation, then translation as one matrix,
// rebuilding it only after a setter marked the transform dirty.
func (t *Transform) GetLocal() Mat4 {
	if t == nil {
		return NewMat4Identity()
	}
	if t.IsDirty {
		r := NewMat4EulerXYZ(t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
		t.Local = NewMat4Scale(t.Scale).Mul(r).Mul(NewMat4Translation(t.Position))
		t.IsDirty = false
	}
	return t.Local
}

// GetWorld returns the local matrix followed by every parent's.
func (t *Transform) GetWorld() Mat4 {
	if t == nil {
		return NewMat4Identity()
	}
	l := t.GetLocal()
	if t.Parent != nil {
		return l.Mul(t.Parent.GetWorld())
	}
	return l
}

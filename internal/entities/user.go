package entities

type User struct {
	ID             int    `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex"`
	HashedPassword string
	IsActive       bool
}

// UserUpdate describes a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username       *string
	HashedPassword *string
	IsActive       *bool
}

func (u UserUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.Username != nil {
		fields["username"] = *u.Username
	}
	if u.HashedPassword != nil {
		fields["hashed_password"] = *u.HashedPassword
	}
	if u.IsActive != nil {
		fields["is_active"] = *u.IsActive
	}
	return fields
}

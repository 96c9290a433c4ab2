package access

import (
	"errors"
	"time"
)

var ErrUnauthorized = errors.New("caller lacks required role")

type Capability string

const (
	CapOwner    Capability = "owner"
	CapVerifier Capability = "verifier"
	CapMinter   Capability = "minter"
	CapBridge   Capability = "bridge"
)

// Grant is one (capability, address) entry in the platform allow-lists.
type Grant struct {
	ID         uint64     `gorm:"primaryKey;column:id" json:"-"`
	Capability Capability `gorm:"type:varchar(16);uniqueIndex:ux_grants_cap_address,priority:1" json:"capability"`
	Address    string     `gorm:"size:42;uniqueIndex:ux_grants_cap_address,priority:2" json:"address"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Grant) TableName() string { return "role_grants" }

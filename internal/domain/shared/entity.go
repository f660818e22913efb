package shared

import "time"

// BaseEntity carries the database identity and timestamps of an entity.
// ID stays zero until the row is inserted.
type BaseEntity struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{CreatedAt: now, UpdatedAt: now}
}

// Touch sets UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot is an entity guarded by an optimistic lock. Repositories
// update only when the stored version matches, then bump it.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

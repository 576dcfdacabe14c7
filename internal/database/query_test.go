package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type plateModel struct {
	ID    int64  `gorm:"primaryKey"`
	Fin   int64  `gorm:"not null"`
	Plate string `gorm:"not null"`
}

func (plateModel) TableName() string { return "plates" }

type plate struct {
	fin   int64
	plate string
}

type plateMapper struct{}

func (plateMapper) ToDomain(e plateModel) plate { return plate{fin: e.Fin, plate: e.Plate} }

func (plateMapper) ToModel(p plate) plateModel { return plateModel{Fin: p.fin, Plate: p.plate} }

func newPlateRepository(t *testing.T) Repository[plate, plateModel] {
	t.Helper()
	ctx := context.Background()

	db, err := NewDatabase(ctx, MemoryURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.GORM().AutoMigrate(&plateModel{}))

	repo := NewRepository[plate, plateModel](db, plateMapper{}, "plate")
	err = WithTransaction(ctx, db, func(tx *gorm.DB) error {
		return repo.CreateTx(tx, []plate{
			{fin: 1, plate: "B-AA-1"},
			{fin: 1, plate: "B-AA-2"},
			{fin: 2, plate: "M-ZZ-9"},
		})
	})
	require.NoError(t, err)
	return repo
}

func TestFilterOperator_String(t *testing.T) {
	assert.Equal(t, "=", OpEqual.String())
	assert.Equal(t, "IN", OpIn.String())
}

func TestQuery_IsImmutable(t *testing.T) {
	base := NewQuery().Equal("fin", 1)
	withOrder := base.OrderDesc("plate").Limit(5)
	withIn := base.In("plate", []string{"a", "b"})

	assert.Len(t, base.Filters(), 1)
	assert.Empty(t, base.Orders())
	assert.Zero(t, base.LimitValue())

	assert.Len(t, withOrder.Orders(), 1)
	assert.Equal(t, "plate DESC", withOrder.Orders()[0].String())
	assert.Equal(t, 5, withOrder.LimitValue())

	require.Len(t, withIn.Filters(), 2)
	assert.Equal(t, "plate IN ?", withIn.Filters()[1].Clause())
	assert.Equal(t, "fin = ?", withIn.Filters()[0].Clause())
}

func TestRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := newPlateRepository(t)

	plates, err := repo.Find(ctx, NewQuery().Equal("fin", 1).OrderDesc("plate"))
	require.NoError(t, err)
	require.Len(t, plates, 2)
	assert.Equal(t, "B-AA-2", plates[0].plate)
	assert.Equal(t, "B-AA-1", plates[1].plate)

	limited, err := repo.Find(ctx, NewQuery().OrderAsc("plate").Limit(1))
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "B-AA-1", limited[0].plate)

	in, err := repo.Find(ctx, NewQuery().In("fin", []int64{2, 3}))
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, int64(2), in[0].fin)
}

func TestRepository_FindOne(t *testing.T) {
	ctx := context.Background()
	repo := newPlateRepository(t)

	p, err := repo.FindOne(ctx, NewQuery().Equal("plate", "M-ZZ-9"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.fin)

	_, err = repo.FindOne(ctx, NewQuery().Equal("plate", "nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_CountAndExists(t *testing.T) {
	ctx := context.Background()
	repo := newPlateRepository(t)

	n, err := repo.Count(ctx, NewQuery())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.Count(ctx, NewQuery().Equal("fin", 1).Limit(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "count ignores limit")

	ok, err := repo.Exists(ctx, NewQuery().Equal("fin", 2))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, NewQuery().Equal("fin", 3))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_DeleteBy(t *testing.T) {
	ctx := context.Background()
	repo := newPlateRepository(t)

	require.NoError(t, repo.DeleteBy(ctx, NewQuery().Equal("fin", 1)))
	n, err := repo.Count(ctx, NewQuery())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.DeleteBy(ctx, NewQuery()))
	n, err = repo.Count(ctx, NewQuery())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepository_CreateTxEmptyIsNoop(t *testing.T) {
	repo := newPlateRepository(t)
	assert.NoError(t, repo.CreateTx(nil, nil))
}

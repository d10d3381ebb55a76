// Package storagetest abre bancos SQLite descartáveis, já migrados, para os testes.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// New cria um banco SQLite num diretório temporário do teste e aplica as migrações.
func New(t testing.TB) *storage.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "fracoes.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := storage.NewDB(storage.Options{Driver: storage.SQLite, DSN: dsn, MigrateOnStart: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// Owner cria um dono comum.
func Owner(t testing.TB, db *storage.DB, name string) models.Owner {
	t.Helper()
	o := models.Owner{Name: name, Email: name + "@fracoes.test"}
	require.NoError(t, db.Queries().SaveOwner(context.Background(), &o))
	return o
}

// Manager cria um dono com privilégios de gestor.
func Manager(t testing.TB, db *storage.DB, name string) models.Owner {
	t.Helper()
	o := models.Owner{Name: name, Email: name + "@fracoes.test", IsManager: true}
	require.NoError(t, db.Queries().SaveOwner(context.Background(), &o))
	return o
}

// Asset cria um ativo com limites folgados.
func Asset(t testing.TB, db *storage.DB, name string, totalUnit int64) models.Asset {
	t.Helper()
	a := models.Asset{Name: name, TotalUnit: totalUnit, UnitMin: 1, UnitMax: totalUnit}
	require.NoError(t, db.Queries().SaveAsset(context.Background(), &a))
	return a
}

// Fraction grava diretamente uma fração para o dono, com data de criação controlada.
func Fraction(t testing.TB, db *storage.DB, assetID, ownerID, units int64, value string, createdAt time.Time) models.Fraction {
	t.Helper()
	f := models.Fraction{
		AssetID:      assetID,
		OwnerID:      ownerID,
		Units:        units,
		ValuePerUnit: decimal.RequireFromString(value),
		CreatedAt:    createdAt.UTC(),
	}
	require.NoError(t, db.Queries().SaveFraction(context.Background(), &f))
	return f
}

// GetFraction relê uma fração do banco.
func GetFraction(t testing.TB, db *storage.DB, id int64) models.Fraction {
	t.Helper()
	f, found, err := db.Queries().GetFraction(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found)
	return f
}

// GetOffer relê uma oferta do banco.
func GetOffer(t testing.TB, db *storage.DB, id int64) models.Offer {
	t.Helper()
	o, found, err := db.Queries().GetOffer(context.Background(), id, false)
	require.NoError(t, err)
	require.True(t, found)
	return o
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // driver PostgreSQL
	_ "modernc.org/sqlite" // driver SQLite embutido (desenvolvimento e testes)
)

// Dialect identifica o banco relacional por trás do DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func init() {
	// o sqlx não conhece o nome do driver modernc; as queries são escritas com "?"
	sqlx.BindDriver(string(SQLite), sqlx.QUESTION)
}

// Options configura a conexão com o banco.
type Options struct {
	Driver         Dialect
	DSN            string
	MaxOpenConns   int
	MigrateOnStart bool
}

// DB representa a conexão com o banco de dados (PostgreSQL em produção, SQLite em testes).
type DB struct {
	*sqlx.DB
	dialect Dialect
}

// NewDB conecta-se ao banco e, se pedido, executa as migrações.
func NewDB(opts Options) (*DB, error) {
	switch opts.Driver {
	case Postgres, SQLite:
	default:
		return nil, fmt.Errorf("driver de banco desconhecido: %q", opts.Driver)
	}

	db, err := sqlx.Connect(string(opts.Driver), opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if opts.Driver == SQLite {
		// SQLite aceita um único escritor; uma conexão só serializa as liquidações
		db.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Printf("Conexão com %s estabelecida com sucesso.", opts.Driver)

	d := &DB{DB: db, dialect: opts.Driver}
	if opts.MigrateOnStart {
		if _, err := d.Migrate(MigrateUp, 0); err != nil {
			db.Close()
			return nil, fmt.Errorf("falha ao executar migrações: %w", err)
		}
	}
	return d, nil
}

// Dialect devolve o banco em uso.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Queries devolve o acesso ao banco fora de transação, para leituras.
func (d *DB) Queries() *Queries {
	return &Queries{ext: d.DB, dialect: d.dialect}
}

// WithTx executa fn dentro de uma única transação. Se fn devolver erro (ou entrar em pânico)
// tudo é desfeito; caso contrário a transação é confirmada.
func (d *DB) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := d.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Queries{ext: tx, dialect: d.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Erro ao desfazer transação: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	return nil
}

// Queries agrupa as consultas do razão. Funciona tanto sobre o *sqlx.DB quanto sobre uma *sqlx.Tx.
type Queries struct {
	ext     sqlx.ExtContext
	dialect Dialect
}

// rebind troca os "?" pelo marcador do driver ($1, $2... no PostgreSQL).
func (q *Queries) rebind(query string) string {
	return q.ext.Rebind(query)
}

// forUpdate devolve a cláusula de bloqueio de linha quando o banco suporta.
func (q *Queries) forUpdate(lock bool) string {
	if lock && q.dialect == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

func (q *Queries) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, q.ext, dest, q.rebind(query), args...)
}

func (q *Queries) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q.ext, dest, q.rebind(query), args...)
}

// exec executa um comando e devolve quantas linhas foram afetadas.
func (q *Queries) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := q.ext.ExecContext(ctx, q.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// now é o relógio do razão: sempre UTC, para que a ordenação textual do SQLite coincida com a temporal.
func now() time.Time {
	return time.Now().UTC()
}

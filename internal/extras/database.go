package extras

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// Database is a supported local database kind.
type Database string

const (
	DBNone     Database = ""
	DBSQLite   Database = "sqlite"
	DBPostgres Database = "postgres"
	DBMySQL    Database = "mysql"
)

// Databases lists the accepted kinds for prompts and help text.
var Databases = []Database{DBSQLite, DBPostgres, DBMySQL}

// ParseDatabase accepts the kind names plus a few common spellings.
func ParseDatabase(s string) (Database, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DBNone, nil
	case "sqlite", "sqlite3":
		return DBSQLite, nil
	case "postgres", "postgresql", "pg":
		return DBPostgres, nil
	case "mysql":
		return DBMySQL, nil
	}
	return DBNone, fmt.Errorf("unsupported database %q (want sqlite, postgres or mysql)", s)
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]struct{}       `yaml:"volumes,omitempty"`
}

type composeService struct {
	Image       string            `yaml:"image"`
	Environment map[string]string `yaml:"environment"`
	Ports       []string          `yaml:"ports"`
	Volumes     []string          `yaml:"volumes,omitempty"`
}

const (
	dbUser     = "app"
	dbPassword = "secret"
)

// WriteDatabase adds local database scaffolding to dir and returns the
// files it wrote. SQLite gets an empty db.sqlite3; server databases get a
// docker-compose.yml. Every kind records DATABASE_URL in <dir>/.env.
func WriteDatabase(dir, project string, db Database) ([]string, error) {
	var written []string
	var url string
	switch db {
	case DBNone:
		return nil, nil
	case DBSQLite:
		path := filepath.Join(dir, "db.sqlite3")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create db.sqlite3: %w", err)
		}
		_ = f.Close()
		written = append(written, "db.sqlite3")
		url = "sqlite:///db.sqlite3"
	case DBPostgres, DBMySQL:
		compose, u := composeFor(project, db)
		data, err := yaml.Marshal(compose)
		if err != nil {
			return nil, fmt.Errorf("marshal docker-compose.yml: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "docker-compose.yml"), data, 0o644); err != nil {
			return nil, fmt.Errorf("write docker-compose.yml: %w", err)
		}
		written = append(written, "docker-compose.yml")
		url = u
	default:
		return nil, fmt.Errorf("unsupported database %q", db)
	}

	if err := mergeEnv(filepath.Join(dir, ".env"), map[string]string{"DATABASE_URL": url}); err != nil {
		return written, err
	}
	return append(written, ".env"), nil
}

func composeFor(project string, db Database) (composeFile, string) {
	name := dbName(project)
	if db == DBPostgres {
		return composeFile{
			Services: map[string]composeService{"db": {
				Image: "postgres:14",
				Environment: map[string]string{
					"POSTGRES_USER":     dbUser,
					"POSTGRES_PASSWORD": dbPassword,
					"POSTGRES_DB":       name,
				},
				Ports:   []string{"5432:5432"},
				Volumes: []string{"db-data:/var/lib/postgresql/data"},
			}},
			Volumes: map[string]struct{}{"db-data": {}},
		}, fmt.Sprintf("postgres://%s:%s@localhost:5432/%s", dbUser, dbPassword, name)
	}
	return composeFile{
		Services: map[string]composeService{"db": {
			Image: "mysql:8",
			Environment: map[string]string{
				"MYSQL_USER":          dbUser,
				"MYSQL_PASSWORD":      dbPassword,
				"MYSQL_ROOT_PASSWORD": dbPassword,
				"MYSQL_DATABASE":      name,
			},
			Ports:   []string{"3306:3306"},
			Volumes: []string{"db-data:/var/lib/mysql"},
		}},
		Volumes: map[string]struct{}{"db-data": {}},
	}, fmt.Sprintf("mysql://%s:%s@localhost:3306/%s", dbUser, dbPassword, name)
}

// dbName turns a project name into a safe database identifier.
func dbName(project string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(project) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "app"
	}
	return b.String()
}

// mergeEnv sets keys in a dotenv file, keeping existing entries.
func mergeEnv(path string, values map[string]string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		env = map[string]string{}
	} else if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	for k, v := range values {
		env[k] = v
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"mercari/shopper/internal/cache"
	"mercari/shopper/internal/catalog"
	"mercari/shopper/internal/cleaner"
	"mercari/shopper/internal/client"
	"mercari/shopper/internal/config"
	"mercari/shopper/internal/console"
	"mercari/shopper/internal/matcher"
	"mercari/shopper/internal/proxy"
	"mercari/shopper/internal/repository"
	"mercari/shopper/internal/service"
	"mercari/shopper/internal/translator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Lexicon *translator.Lexicon
	Matcher *matcher.Matcher
	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// ConfigureLogging applies the log section to the package-level logger.
func ConfigureLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// LoadCatalog never fails: a missing or corrupt source degrades to an empty catalog.
func LoadCatalog(cfg config.CatalogConfig) *catalog.Catalog {
	c, err := catalog.LoadFile(cfg.Path, catalog.Format(cfg.Format))
	if err != nil {
		log.Warnf("⚠️ Category catalog unavailable, category filters are disabled: %v", err)
		return c
	}

	log.Infof("✅ Loaded %d categories from %s", c.Len(), cfg.Path)
	if n := len(c.Collisions()); n > 0 {
		log.Warnf("⚠️ %d category names appear more than once, the last one wins", n)
	}
	return c
}

// NewMatching builds the read-only catalog, lexicon and matcher without any network access.
func NewMatching(cfg *config.Config) (*catalog.Catalog, *translator.Lexicon, *matcher.Matcher) {
	c := LoadCatalog(cfg.Catalog)
	l := translator.Default()
	return c, l, matcher.New(c, l)
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	container.Catalog, container.Lexicon, container.Matcher = NewMatching(cfg)

	if err := container.connectStores(ctx); err != nil {
		_ = container.Close()
		return nil, err
	}

	searchCache := cache.NewNoopSearchCache()
	if container.redis != nil {
		searchCache = cache.NewRedisSearchCache(container.redis, time.Duration(cfg.Redis.TTL)*time.Second)
	}

	turnRepo := repository.NewNoopTurnRepository()
	if container.db != nil {
		turnRepo = repository.NewTurnRepository(container.db)
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Search.Proxies, cfg.Search.BaseURL)

	searchClient, err := client.NewSearchClient(cfg.Search, proxySupplier)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("failed to initialize search client: %w", err)
	}

	container.Service = service.NewService(
		client.NewLLMClient(cfg.LLM),
		searchClient,
		cleaner.New(container.Catalog, container.Lexicon),
		container.Matcher,
		searchCache,
		turnRepo,
		cfg.Recommendation,
	)

	return container, nil
}

// connectStores opens the optional redis cache and history database concurrently.
func (c *Container) connectStores(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if c.Config.Redis.Enabled {
		g.Go(func() error {
			rdb := redis.NewClient(&redis.Options{
				Addr:     fmt.Sprintf("%s:%d", c.Config.Redis.Host, c.Config.Redis.Port),
				Password: c.Config.Redis.Password,
				DB:       c.Config.Redis.Database,
			})
			c.redis = rdb

			if err := rdb.Ping(gctx).Err(); err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			log.Info("✅ Connected to Redis successfully")
			return nil
		})
	}

	if c.Config.Database.Enabled {
		g.Go(func() error {
			db, err := pgxpool.New(gctx,
				fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
					c.Config.Database.Host,
					c.Config.Database.Port,
					c.Config.Database.User,
					c.Config.Database.Password,
					c.Config.Database.Name,
				))
			if err != nil {
				return fmt.Errorf("failed to configure database: %w", err)
			}
			c.db = db

			if err := db.Ping(gctx); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			if _, err := db.Exec(gctx, repository.Schema); err != nil {
				return fmt.Errorf("failed to prepare turn history table: %w", err)
			}
			log.Info("✅ Connected to database successfully")
			return nil
		})
	}

	return g.Wait()
}

// Run reads requests from in until "exit" or end of input.
func (c *Container) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return console.NewREPL(in, out, c.Service).Run(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}

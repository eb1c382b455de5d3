package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/codocs/codocs/handlers"
	"github.com/codocs/codocs/internal/comments"
	commentshandler "github.com/codocs/codocs/internal/comments/handler"
	"github.com/codocs/codocs/internal/config"
	"github.com/codocs/codocs/internal/database"
	dochandler "github.com/codocs/codocs/internal/document/handler"
	"github.com/codocs/codocs/internal/document/repository"
	"github.com/codocs/codocs/internal/document/service"
	"github.com/codocs/codocs/internal/oidc"
	"github.com/codocs/codocs/internal/presence"
	presencehandler "github.com/codocs/codocs/internal/presence/handler"
	"github.com/codocs/codocs/internal/snapshots"
	"github.com/codocs/codocs/internal/storage"
	"github.com/codocs/codocs/internal/users"
	"github.com/codocs/codocs/pkg/logger"
	"github.com/codocs/codocs/pkg/metrics"
	"github.com/codocs/codocs/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// shared runtime vars used by handlers/readiness
	var verifier middleware.Verifier
	var userSvc *users.Service
	var mongoClient *mongo.Client

	// Connect to Redis early: the access-code index, presence store and the
	// rate-limiter all use it when available.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			rdb = nil
		} else {
			repository.SetCodeIndexClient(rdb)
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the configured dependencies are reachable
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if cfg.MongoDB.URI != "" {
			deps["mongo"] = mongoClient != nil
			if !deps["mongo"] {
				ready = false
			}
			deps["users"] = userSvc != nil
		} else {
			deps["mongo"] = true
		}

		if cfg.Keycloak.URL != "" {
			deps["oidc"] = verifier != nil
			if !deps["oidc"] {
				ready = false
			}
		} else {
			deps["oidc"] = true
		}

		if cfg.Redis.Host != "" {
			deps["redis"] = rdb != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Keycloak OIDC verifier
	ctx := context.Background()
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" && cfg.Keycloak.Realm != "" {
		issuer := strings.TrimRight(cfg.Keycloak.URL, "/") + "/realms/" + cfg.Keycloak.Realm
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	} else if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		// older deployments expose the realm path in the URL itself
		ver, err := oidc.NewVerifier(ctx, cfg.Keycloak.URL, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier (fallback): %v", err)
		} else {
			verifier = ver
		}
	}

	// Optional insecure verifier for integration tests: parse token claims
	// without signature verification.
	if verifier == nil {
		if strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
			logger.Warn("enabling insecure OIDC verifier (integration mode)")
			verifier = oidc.NewInsecureVerifier()
		}
	}

	// MongoDB-backed stores. Retry with backoff to tolerate startup races;
	// fall back to in-memory stores when Mongo is absent (dev mode).
	var docRepo repository.Repository = repository.NewMemoryRepo()
	var commentRepo comments.Repository = comments.NewMemoryRepository()
	var snapStore *snapshots.Store
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts, using in-memory stores: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			db := mongoClient.Database(cfg.MongoDB.Database)
			userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
			docRepo = repository.NewMongoRepo(db.Collection("documents"))
			commentRepo = comments.NewMongoRepository(db.Collection("comment_threads"))
			snapStore = snapshots.NewStore(db.Collection("snapshots"))
		}
	}

	// presence lives in Redis when available, in memory otherwise
	window := cfg.Presence.Window
	if window <= 0 {
		window = presence.DefaultWindow
	}
	var presenceRepo presence.Repository = presence.NewMemoryRepository()
	if rdb != nil {
		presenceRepo = presence.NewRedisRepository(rdb, "presence:")
	}
	tracker := presence.NewTracker(presenceRepo, window)

	// MinIO archive of imported files is optional
	var imports *storage.MinIOStorage
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		st, err := storage.NewMinIOStorage(mcfg)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
		} else {
			imports = st
		}
	}

	var auth gin.HandlerFunc
	if verifier != nil {
		auth = middleware.AuthMiddleware(verifier)
	} else {
		logger.Warnf("no OIDC verifier configured, API endpoints will reject requests")
	}

	docSvc := service.NewService(docRepo)
	dochandler.New(docSvc, cfg, imports, snapStore).Register(r, auth)
	presencehandler.New(tracker).Register(r, auth)
	commentshandler.New(comments.NewService(commentRepo)).Register(r, auth)

	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	if verifier != nil {
		api.GET("/me", auth, func(c *gin.Context) {
			claims, _ := c.Get("claims")
			if userSvc != nil {
				if cm, ok := claims.(map[string]interface{}); ok {
					u, err := userSvc.UpsertFromClaims(c.Request.Context(), cm)
					if err == nil && u != nil {
						c.JSON(http.StatusOK, gin.H{"user": u})
						return
					}
				}
			}
			// fallback: return claims
			c.JSON(http.StatusOK, gin.H{"claims": claims})
		})
	} else {
		api.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "OIDC not configured"})
		})
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Config summary: keycloak=%v mongo=%v redis=%v jwt_secret_set=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.JWT.Secret != "")
	logger.Infof("Starting codocs service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

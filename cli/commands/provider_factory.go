package commands

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/cli/keystore"
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
	"github.com/petal-labs/hfgo/inference"
	"github.com/petal-labs/hfgo/providers"
)

// HFTokenEnv is the environment variable read when no token is stored.
const HFTokenEnv = "HF_TOKEN"

// resolveToken picks the access token: the --token flag, the provider's own
// key when the config names one for the selected provider, the stored
// Hugging Face token, then HF_TOKEN.
func (a *App) resolveToken() string {
	if a.token != "" {
		return a.token
	}

	ks, err := a.newKeystore()
	if err != nil {
		a.logger.Debug("keystore unavailable", zap.Error(err))
	} else {
		if pc := a.cfg.GetProvider(a.provider); pc != nil && pc.APIKeyRef != "" {
			if key, err := ks.Get(pc.APIKeyRef); err == nil {
				return key
			}
			a.logger.Warn("provider key not in keystore", zap.String("provider", a.provider), zap.String("ref", pc.APIKeyRef))
		}
		if token, err := ks.Get(keystore.HFTokenName); err == nil {
			return token
		} else if !isNotFound(err) {
			a.logger.Warn("read keystore", zap.Error(err))
		}
	}

	return os.Getenv(HFTokenEnv)
}

func isNotFound(err error) bool {
	var nf *keystore.ErrKeyNotFound
	return errors.As(err, &nf)
}

// newHubClient builds the Hub client with the configured mapping cache.
// The returned close function releases the cache connection.
func (a *App) newHubClient(ctx context.Context, token string) (*hub.Client, func(), error) {
	ttl := a.cfg.Cache.TTL
	if ttl <= 0 {
		ttl = hub.DefaultCacheTTL
	}

	var cache hub.MappingCache = hub.NewMemoryCache(ttl)
	closeFn := func() {}
	if rc := a.cfg.Cache.Redis; rc.Address != "" {
		redisCache, err := hub.NewRedisCache(ctx, hub.RedisCacheConfig{
			Address:  rc.Address,
			Password: rc.Password,
			DB:       rc.DB,
			Prefix:   rc.Prefix,
			TTL:      ttl,
		})
		if err != nil {
			return nil, nil, exitWithCode(ExitNetwork, err)
		}
		cache = redisCache
		closeFn = func() { _ = redisCache.Close() }
	}

	opts := []hub.Option{hub.WithLogger(a.logger), hub.WithCache(cache)}
	if a.cfg.HubURL != "" {
		opts = append(opts, hub.WithURL(a.cfg.HubURL))
	}
	opts = append(opts, a.hubOptions...)
	return hub.New(token, opts...), closeFn, nil
}

// inferenceOptions are the client options shared by every command.
func (a *App) inferenceOptions(h *hub.Client) []inference.Option {
	opts := []inference.Option{
		inference.WithLogger(a.logger),
		inference.WithHubClient(h),
	}
	if a.provider != "" {
		opts = append(opts, inference.WithProvider(a.provider))
	}
	if a.endpointURL != "" {
		opts = append(opts, inference.WithEndpointURL(a.endpointURL))
	}
	if a.cfg.RouterURL != "" {
		opts = append(opts, inference.WithRouterURL(a.cfg.RouterURL))
	}
	if a.cfg.BillTo != "" {
		opts = append(opts, inference.WithBillTo(a.cfg.BillTo))
	}
	return append(opts, a.clientOptions...)
}

// newClient builds an inference client for the current flags and config.
func (a *App) newClient(ctx context.Context) (*inference.Client, func(), error) {
	token := a.resolveToken()
	if token == "" {
		a.logger.Debug("no access token configured")
	}
	h, closeFn, err := a.newHubClient(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	client := inference.New(token, a.inferenceOptions(h)...)
	a.logger.Debug("inference client ready",
		zap.String("provider", a.providerLabel()),
		zap.String("auth", string(core.AuthMethodFor(core.NewSecret(token)))),
	)
	return client, closeFn, nil
}

// requireModel returns the model, or a validation error naming the flag.
func (a *App) requireModel() (string, error) {
	if a.model == "" && a.endpointURL == "" {
		return "", exitWithCode(ExitValidation, errors.New("model required: use --model flag or set default_model in config"))
	}
	return a.model, nil
}

// providerLabel is the provider id shown to the user.
func (a *App) providerLabel() string {
	if a.provider == "" {
		return providers.Auto
	}
	return a.provider
}

package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// devGeoIpInfo gets served for localhost requests during development.
var devGeoIpInfo = ipinfo.Core{
	IP:          net.ParseIP("127.0.0.1"),
	City:        "Berlin",
	Region:      "Berlin",
	Country:     "DE",
	CountryName: "Germany",
	Timezone:    "Europe/Berlin",
}

type Api struct {
	mu          sync.Mutex
	client      *ipinfo.Client
	redisClient *redis.Client
}

func NewApi(
	ipInfoAPIKey string,
	httpClient *http.Client,
	redisClient *redis.Client,
) *Api {
	return &Api{
		client:      ipinfo.NewClient(httpClient, nil, ipInfoAPIKey),
		redisClient: redisClient,
	}
}

func (gi *Api) GetRequestGeoInfo(ctx context.Context, r *http.Request) (*ipinfo.Core, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getRequestGeoInfo")
	defer span.End()

	userIp, err := pkg.ReadUserIP(r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("get user ip: %s", err))
		return nil, fmt.Errorf("get user ip: %w", err)
	}

	return gi.GetIPGeoInfo(ctx, userIp)
}

func (gi *Api) GetIPGeoInfo(ctx context.Context, userIp string) (*ipinfo.Core, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getIpGeoInfo")
	defer span.End()
	span.SetAttributes(attribute.String("user.ip", userIp))

	// used for development
	if userIp == "localhost" || userIp == "127.0.0.1" || userIp == "::1" {
		log.Debugf("get ip geo info: returning development localhost info")
		return &devGeoIpInfo, nil
	}

	// the ipinfo free plan quota is tiny, serialize lookups and lean on the redis cache
	gi.mu.Lock()
	defer gi.mu.Unlock()

	userIpKey := fmt.Sprintf("ip-info::%s", userIp)
	cached, err := gi.redisClient.Get(ctx, userIpKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		span.SetAttributes(attribute.Bool("user.ip.from-cache", false))
		log.Debugf("ip info value from redis not found for [%s]", userIp)
	case err != nil:
		log.Errorf("failed to get ip info from redis for [%s]: %s", userIpKey, err)
	default:
		span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
		log.Tracef("found geo ip info for [%s] in redis cache", userIp)
		ipInfo := &ipinfo.Core{}
		if err := json.Unmarshal([]byte(cached), ipInfo); err == nil {
			return ipInfo, nil
		}
		log.Errorf("failed to unmarshal cached ip info from redis for %s: %s", userIp, err)
		// continue, and try getting it from the ipinfo API
	}

	ip := net.ParseIP(userIp)
	if ip == nil {
		span.SetStatus(codes.Error, "invalid ip")
		return nil, fmt.Errorf("ip addr %s is invalid", userIp)
	}

	log.Debugf("will ask ipinfo API for ip info: %s", userIp)

	ipInfo, err := gi.client.GetIPInfo(ip)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("get ip info: %s", err))
		return nil, fmt.Errorf("get ip info for %s: %w", userIp, err)
	}

	ipInfoBytes, err := json.Marshal(ipInfo)
	if err != nil {
		log.Errorf("failed to marshal ip info for caching, ip %s: %s", userIp, err)
		return ipInfo, nil
	}
	if err := gi.redisClient.Set(ctx, userIpKey, string(ipInfoBytes), 0).Err(); err != nil {
		log.Errorf("failed to cache ip info in redis for %s: %s", userIp, err)
	} else {
		log.Debugf("ip info cache set in redis for: %s", userIp)
	}

	return ipInfo, nil
}

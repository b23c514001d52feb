// Package redis opens go-redis clients with connection verification and
// provides a ping-based health check.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	ready := redis.Healthcheck(client)
//
// Connect accepts redis:// and rediss:// URLs. It pings up to RetryAttempts
// times, doubling RetryInterval between attempts, all within ConnectTimeout.
package redis

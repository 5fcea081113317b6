// Package redis connects the realtime in-app hub to a Redis server.
//
// Connect dials with retries and verifies the server with a ping; the
// resulting client feeds inapp.NewRedisHub (or use inapp.ConnectRedisHub,
// which wraps both steps). Healthcheck exposes the connection to
// liveness and readiness probes.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	hub := inapp.NewRedisHub(client)
package redis

/*
Package resilience guards synchronous hardware round trips with a circuit breaker.

Toggling the torch, the keypad light or the vibration motor blocks the calling
application until the device answers. A breaker placed in front of each device
lets a wedged driver fail fast instead of stalling every caller for the full
timeout.

# Usage

	breaker := resilience.New("torch", resilience.Settings{
		Cooldown: 10 * time.Second,
		Trip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	ctx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
	defer cancel()
	reply, err := resilience.Do(ctx, breaker, func(ctx context.Context) ([]byte, error) {
		return client.Execute(ctx, "torch", payload)
	})

# States

	Closed --[Trip]-> Open --[Cooldown]-> Half-Open --[Probes successes]-> Closed
	                                          |
	                                      [failure]
	                                          v
	                                        Open
*/
package resilience

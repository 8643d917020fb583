package constant

const (
	// ZoneEventStream is the JetStream stream zone lifecycle events are published to.
	ZoneEventStream = "zonefinder-zones"

	ZoneEventSubjectPrefix = "ZONE."

	// AddressWorkerQueue is the queue group of the address backfill consumers.
	AddressWorkerQueue = "zonefinder-address"

	ZoneImageKeyPrefix    = "zones/"
	ProfileImageKeyPrefix = "profiles/"
)

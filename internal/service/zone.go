package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
	modelcache "zonefinder.dev/backend/internal/model/cache"
	"zonefinder.dev/backend/internal/pkg/geo"
	"zonefinder.dev/backend/internal/pkg/observability"
	"zonefinder.dev/backend/internal/repo"
)

type Zone struct {
	ZoneRepo     *repo.Zone
	ImageService *Image
	EventService *Event

	defaultRadius float64
}

func NewZone(conf *appconfig.Config, zoneRepo *repo.Zone, imageService *Image, eventService *Event) *Zone {
	return &Zone{
		ZoneRepo:      zoneRepo,
		ImageService:  imageService,
		EventService:  eventService,
		defaultRadius: conf.ZoneDefaultRadius,
	}
}

// FilterWithin keeps the zones lying within radius meters of the center, preserving order.
func FilterWithin(zones []*model.Zone, lat, lng, radius float64) []*model.Zone {
	return lo.Filter(zones, func(z *model.Zone, _ int) bool {
		return geo.Within(lat, lng, radius, z.Latitude, z.Longitude)
	})
}

// ZoneFromRequest builds a new zone out of req. An empty submitter becomes AnonymousUser.
func ZoneFromRequest(req *model.ZoneRequest) (*model.Zone, error) {
	var zone model.Zone
	if err := copier.Copy(&zone, req); err != nil {
		return nil, err
	}
	zone.User = strings.TrimSpace(zone.User)
	if zone.User == "" {
		zone.User = model.AnonymousUser
	}
	if req.ImageURL != "" {
		zone.Image = null.StringFrom(req.ImageURL)
	}
	return &zone, nil
}

func (s *Zone) GetZones(ctx context.Context, query *model.ZoneQuery) ([]*model.Zone, error) {
	if !query.HasCenter() {
		zones, err := s.ZoneRepo.GetZones(ctx, nil)
		if err != nil {
			return nil, err
		}
		observability.ZoneListSize.WithLabelValues("false").Observe(float64(len(zones)))
		return zones, nil
	}

	lat, lng := *query.Latitude, *query.Longitude
	radius := lo.FromPtrOr(query.Radius, s.defaultRadius)
	bounds := geo.BoundsAround(lat, lng, radius)

	zones, err := s.ZoneRepo.GetZones(ctx, &bounds)
	if err != nil {
		return nil, err
	}
	zones = FilterWithin(zones, lat, lng, radius)
	observability.ZoneListSize.WithLabelValues("true").Observe(float64(len(zones)))
	return zones, nil
}

// Cache: zone#zoneId:{zoneId}, 1 hr
func (s *Zone) GetZoneByID(ctx context.Context, id int64) (*model.Zone, error) {
	var zone model.Zone
	_, err := modelcache.ZoneByID.MutexGetSet(ctx, strconv.FormatInt(id, 10), &zone, func() (model.Zone, error) {
		z, err := s.ZoneRepo.GetZoneByID(ctx, id)
		if err != nil {
			return model.Zone{}, err
		}
		return *z, nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (s *Zone) CreateZone(ctx context.Context, req *model.ZoneRequest, img *model.ImageUpload) (*model.Zone, error) {
	zone, err := ZoneFromRequest(req)
	if err != nil {
		return nil, err
	}

	if img != nil {
		url, err := s.ImageService.Upload(ctx, constant.ZoneImageKeyPrefix, img)
		if err != nil {
			return nil, err
		}
		zone.Image = null.StringFrom(url)
	}

	if err := s.ZoneRepo.CreateZone(ctx, zone); err != nil {
		return nil, err
	}

	observability.ZonesCreated.WithLabelValues(strconv.FormatBool(zone.Image.Valid)).Inc()
	log.Info().
		Str("evt.name", "zone.created").
		Int64("zoneId", zone.ID).
		Float64("lat", zone.Latitude).
		Float64("lng", zone.Longitude).
		Msg("zone created")

	s.EventService.PublishZoneEvent(ctx, NewZoneEvent(model.ZoneCreated, zone.ID, zone))
	return zone, nil
}

func (s *Zone) UpdateZone(ctx context.Context, id int64, req *model.ZoneRequest, img *model.ImageUpload) (*model.Zone, error) {
	existing, err := s.ZoneRepo.GetZoneByID(ctx, id)
	if err != nil {
		return nil, err
	}

	zone, err := ZoneFromRequest(req)
	if err != nil {
		return nil, err
	}
	zone.ID = id
	if !zone.Image.Valid {
		zone.Image = existing.Image
	}
	if img != nil {
		url, err := s.ImageService.Upload(ctx, constant.ZoneImageKeyPrefix, img)
		if err != nil {
			return nil, err
		}
		zone.Image = null.StringFrom(url)
	}

	if err := s.ZoneRepo.UpdateZone(ctx, zone); err != nil {
		return nil, err
	}
	if existing.Image.Valid && existing.Image != zone.Image {
		s.ImageService.Delete(ctx, existing.Image.String)
	}
	s.evict(ctx, id)

	s.EventService.PublishZoneEvent(ctx, NewZoneEvent(model.ZoneUpdated, zone.ID, zone))
	return zone, nil
}

func (s *Zone) DeleteZone(ctx context.Context, id int64) error {
	existing, err := s.ZoneRepo.GetZoneByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ZoneRepo.DeleteZone(ctx, id); err != nil {
		return err
	}
	if existing.Image.Valid {
		s.ImageService.Delete(ctx, existing.Image.String)
	}
	s.evict(ctx, id)

	s.EventService.PublishZoneEvent(ctx, NewZoneEvent(model.ZoneDeleted, id, nil))
	return nil
}

// FillAddress stores a resolved address for a zone submitted without one.
func (s *Zone) FillAddress(ctx context.Context, id int64, address string) error {
	if err := s.ZoneRepo.FillAddress(ctx, id, address); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *Zone) evict(ctx context.Context, id int64) {
	if err := modelcache.ZoneByID.Delete(ctx, strconv.FormatInt(id, 10)); err != nil {
		log.Warn().Err(err).Int64("zoneId", id).Msg("failed to evict zone from cache")
	}
}

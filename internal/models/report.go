package models

import (
	"time"

	"gorm.io/gorm"
)

// TouristRow 报表中的游客行，带上所属用户姓名
type TouristRow struct {
	Tourist
	OwnerName *string
}

type ReportSnapshot struct {
	GeneratedAt time.Time
	Tourists    []TouristRow
	Alerts      []Alert
	Zones       []GeoZone
}

func (s *ReportSnapshot) ActiveAlerts() []Alert {
	var active []Alert
	for _, a := range s.Alerts {
		if a.Status == AlertActive {
			active = append(active, a)
		}
	}
	return active
}

func (s *ReportSnapshot) RestrictedZones() int {
	n := 0
	for _, z := range s.Zones {
		if z.Type == ZoneRestricted {
			n++
		}
	}
	return n
}

// LoadReportSnapshot 读取报表所需的全部数据
func LoadReportSnapshot(db *gorm.DB) (*ReportSnapshot, error) {
	snap := &ReportSnapshot{GeneratedAt: time.Now()}

	tourists, err := ListTourists(db)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := db.Select("id", "name").Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for _, t := range tourists {
		row := TouristRow{Tourist: t}
		if name, ok := names[t.UserID]; ok {
			row.OwnerName = &name
		}
		snap.Tourists = append(snap.Tourists, row)
	}

	if err := db.Order("created_at DESC").Find(&snap.Alerts).Error; err != nil {
		return nil, err
	}
	if snap.Zones, err = ListGeoZones(db); err != nil {
		return nil, err
	}
	return snap, nil
}

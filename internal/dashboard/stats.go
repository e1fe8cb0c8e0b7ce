// Package dashboard computes the admin overview from the event and project
// collections and keeps a local copy that mutates optimistically.
package dashboard

import (
	"sort"
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
)

const RecentActivityLimit = 5

type Activity struct {
	Kind      domain.ResourceKind `json:"kind"`
	ID        uuid.UUID           `json:"id"`
	Title     string              `json:"title"`
	CreatedAt time.Time           `json:"createdAt"`
}

type Stats struct {
	TotalEvents       int        `json:"totalEvents"`
	TotalProjects     int        `json:"totalProjects"`
	EventsThisMonth   int        `json:"eventsThisMonth"`
	ProjectsThisMonth int        `json:"projectsThisMonth"`
	RecentActivity    []Activity `json:"recentActivity"`
}

// Compute aggregates both collections. "This month" compares calendar month
// and year in now's location.
func Compute(events []*domain.Event, projects []*domain.Project, now time.Time) Stats {
	stats := Stats{
		TotalEvents:    len(events),
		TotalProjects:  len(projects),
		RecentActivity: make([]Activity, 0, RecentActivityLimit),
	}

	activity := make([]Activity, 0, len(events)+len(projects))
	for _, e := range events {
		if sameMonth(e.CreatedAt, now) {
			stats.EventsThisMonth++
		}
		activity = append(activity, Activity{Kind: domain.ResourceEvent, ID: e.ID, Title: e.Title, CreatedAt: e.CreatedAt})
	}
	for _, p := range projects {
		if sameMonth(p.CreatedAt, now) {
			stats.ProjectsThisMonth++
		}
		activity = append(activity, Activity{Kind: domain.ResourceProject, ID: p.ID, Title: p.Title, CreatedAt: p.CreatedAt})
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].CreatedAt.After(activity[j].CreatedAt)
	})
	if len(activity) > RecentActivityLimit {
		activity = activity[:RecentActivityLimit]
	}
	stats.RecentActivity = append(stats.RecentActivity, activity...)
	return stats
}

func sameMonth(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}

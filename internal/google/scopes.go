package google

import (
	"fmt"
	"sort"

	calendar "google.golang.org/api/calendar/v3"
	drive "google.golang.org/api/drive/v3"
	youtube "google.golang.org/api/youtube/v3"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"
)

// ServiceProfile describes what one command authorizes and where its
// credential is kept.
type ServiceProfile struct {
	// Name is the value accepted by --service.
	Name string
	// Scopes requested in the authorization URL.
	Scopes []string
	// CredentialFile is the file name under the credentials directory.
	CredentialFile string
	// Offline requests a refresh token (access_type=offline).
	Offline bool
}

// Built-in profiles, one per command.
var (
	CalendarProfile = ServiceProfile{
		Name:           "calendar",
		Scopes:         []string{calendar.CalendarScope},
		CredentialFile: "calendar.getting-started.json",
	}

	DriveProfile = ServiceProfile{
		Name:           "drive",
		Scopes:         []string{drive.DriveScope},
		CredentialFile: "drive.getting-started.json",
	}

	YouTubeProfile = ServiceProfile{
		Name: "youtube",
		Scopes: []string{
			youtubeanalytics.YtAnalyticsReadonlyScope,
			youtube.YoutubeReadonlyScope,
		},
		CredentialFile: "youtube-analytics.api-report.json",
		Offline:        true,
	}
)

var profiles = map[string]ServiceProfile{
	CalendarProfile.Name: CalendarProfile,
	DriveProfile.Name:    DriveProfile,
	YouTubeProfile.Name:  YouTubeProfile,
}

// ProfileByName returns the profile registered under name.
func ProfileByName(name string) (ServiceProfile, error) {
	p, ok := profiles[name]
	if !ok {
		return ServiceProfile{}, fmt.Errorf("unknown service %q, must be one of: %v", name, ProfileNames())
	}
	return p, nil
}

// ProfileNames returns the registered profile names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

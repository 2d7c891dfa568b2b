package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/farmstand/internal/client/models"
	"github.com/dmitrijs2005/farmstand/internal/client/session"
)

// loadExtras merges supplementary attributes from local storage into the
// displayed profile. A corrupt record is treated as absent.
func (a *App) loadExtras(ctx context.Context, uid string) models.ProfileExtras {
	var extras models.ProfileExtras
	raw, found, err := a.store.Get(ctx, userProfilePref+uid)
	if err != nil {
		a.log.Warn(ctx, "reading profile extras failed", "err", err)
		return extras
	}
	if !found {
		return extras
	}
	if err := json.Unmarshal([]byte(raw), &extras); err != nil {
		a.log.Warn(ctx, "parsing profile extras failed", "err", err)
		return models.ProfileExtras{}
	}
	return extras
}

// Profile displays the current user's profile: identity-provider fields
// merged with the locally stored supplement (phone, location, bio).
func (a *App) Profile(ctx context.Context) error {
	s := a.session.Current()
	if s == nil {
		printlnFn("You are not logged in.")
		return nil
	}

	extras := a.loadExtras(ctx, s.UID)

	name := s.DisplayName
	if name == "" {
		name = "No Name"
	}
	printlnFn(name)
	printlnFn(s.Email)
	if s.PhotoURL != "" {
		printlnFn("Photo: " + s.PhotoURL)
	}
	if extras.Phone != "" {
		printlnFn("Phone: " + extras.Phone)
	}
	if extras.Location != "" {
		printlnFn("Location: " + extras.Location)
	}
	if extras.Bio != "" {
		printlnFn("Bio: " + extras.Bio)
	}
	return nil
}

// EditProfile updates the identity provider's display name and photo URL and
// writes the supplementary attributes to local storage under the session's
// identifier. Both writes are fire-and-forget: a failure surfaces a transient
// notice but the entered values are not rolled back.
func (a *App) EditProfile(ctx context.Context) error {
	s := a.session.Current()
	if s == nil {
		printlnFn("You are not logged in.")
		return nil
	}

	extras := a.loadExtras(ctx, s.UID)

	displayName, err := GetTextDefault(a.reader, "Display name", s.DisplayName, os.Stdout)
	if err != nil {
		return err
	}
	photoURL, err := GetTextDefault(a.reader, "Photo URL", s.PhotoURL, os.Stdout)
	if err != nil {
		return err
	}
	if extras.Phone, err = GetTextDefault(a.reader, "Phone", extras.Phone, os.Stdout); err != nil {
		return err
	}
	if extras.Location, err = GetTextDefault(a.reader, "Location", extras.Location, os.Stdout); err != nil {
		return err
	}
	if extras.Bio, err = GetTextDefault(a.reader, "Bio", extras.Bio, os.Stdout); err != nil {
		return err
	}

	a.saveProfile(ctx, s, displayName, photoURL, extras)
	return nil
}

func (a *App) saveProfile(ctx context.Context, s *session.Session, displayName, photoURL string, extras models.ProfileExtras) {
	failed := false

	if err := a.session.UpdateProfile(ctx, displayName, photoURL); err != nil {
		a.log.Warn(ctx, "provider profile update failed", "err", err)
		failed = true
	}

	raw, err := json.Marshal(extras)
	if err == nil {
		err = a.store.Set(ctx, userProfilePref+s.UID, string(raw))
	}
	if err != nil {
		a.log.Warn(ctx, "storing profile extras failed", "err", err)
		failed = true
	}

	if failed {
		printlnFn("Failed to update profile.")
		return
	}
	printlnFn("Profile updated!")
}

package main

import (
	"context"
	"time"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/user"
)

// seed loads a small demo data set: an admin account, a month of calendar
// entries across every source, an open program and a forum category.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	admin := user.User{Username: "admin", Email: "admin@example.com", Name: "Site Admin"}
	if err := admin.SetPassword("LetMeIn123!"); err != nil {
		return err
	}
	adminRec, err := cli.qs.Insert(ctx, "users", core.Record{
		"name":          admin.Name,
		"username":      admin.Username,
		"email":         admin.Email,
		"roles":         user.RoleAdminOwner,
		"is_active":     true,
		"password_hash": string(admin.PasswordHash),
	})
	if err != nil {
		return err
	}

	if _, err = cli.qs.Insert(ctx, "events", core.Record{
		"title":      "Leadership Summit",
		"event_date": now.AddDate(0, 0, 7),
		"location":   "Main Hall",
	}); err != nil {
		return err
	}
	if _, err = cli.qs.Insert(ctx, "bible_studies", core.Record{
		"title":          "Romans Study",
		"scheduled_date": now.AddDate(0, 0, 3),
		"status":         "scheduled",
		"is_online":      true,
		"online_link":    "https://meet.example.com/romans",
	}); err != nil {
		return err
	}
	if _, err = cli.qs.Insert(ctx, "bible_classes", core.Record{
		"title":          "Foundations Class",
		"scheduled_date": now.AddDate(0, 0, 5),
		"status":         "scheduled",
		"location":       "Room 2",
	}); err != nil {
		return err
	}
	if _, err = cli.qs.Insert(ctx, "bible_meetings", core.Record{
		"title":          "Elders Meeting",
		"scheduled_date": now.AddDate(0, 0, 10),
		"status":         "scheduled",
		"location":       "Room 1",
	}); err != nil {
		return err
	}

	courseRec, err := cli.qs.Insert(ctx, "courses", core.Record{"title": "Servant Leadership"})
	if err != nil {
		return err
	}
	if _, err = cli.qs.Insert(ctx, "course_lessons", core.Record{
		"course_id":      courseRec.String("id"),
		"title":          "Week 1: Calling",
		"scheduled_date": now.AddDate(0, 0, 4),
	}); err != nil {
		return err
	}
	if _, err = cli.qs.Insert(ctx, "quizzes", core.Record{
		"title":     "Servant Leadership Intro",
		"quiz_type": "course",
		"course_id": courseRec.String("id"),
		"is_active": true,
	}); err != nil {
		return err
	}

	if _, err = cli.qs.Insert(ctx, "programs", core.Record{
		"title":      "Leadership Residency",
		"summary":    "A one year residency for emerging leaders.",
		"status":     "open",
		"start_date": now.AddDate(0, 2, 0),
		"deadline":   now.AddDate(0, 1, 0),
	}); err != nil {
		return err
	}

	if _, err = cli.qs.Insert(ctx, "mentors", core.Record{
		"user_id":    adminRec.String("id"),
		"name":       admin.Name,
		"email":      admin.Email,
		"focus_area": "preaching",
		"capacity":   3,
		"active":     true,
	}); err != nil {
		return err
	}

	if _, err = cli.qs.Insert(ctx, "forum_categories", core.Record{
		"name": "General",
		"slug": "general",
	}); err != nil {
		return err
	}

	logger.Println("seed data loaded")
	return nil
}

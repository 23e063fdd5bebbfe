// Package devseed fills a development database with the demo accounts,
// tickets, and course catalog used by the web client. Seeding is
// idempotent: rows whose unique keys already exist are skipped.
package devseed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"learnhub/api/internal/crypto"
	"learnhub/api/internal/model"
	"learnhub/api/internal/repository"
)

const seedPassword = "Password123!"

type seedUser struct {
	Username string
	Email    string
	Role     model.Role
}

var seedUsers = []seedUser{
	{Username: "admin", Email: "admin@example.com", Role: model.RoleAdmin},
	{Username: "instructor1", Email: "instructor1@example.com", Role: model.RoleInstructor},
	{Username: "student1", Email: "student1@example.com", Role: model.RoleStudent},
	{Username: "student2", Email: "student2@example.com", Role: model.RoleStudent},
}

var seedCourses = []model.Course{
	{
		Title:        "Introduction to Web Development",
		Description:  "Learn the basics of HTML, CSS, and JavaScript to build modern web pages.",
		Duration:     10,
		Instructor:   "Admin Instructor",
		ThumbnailURL: "https://images.pexels.com/photos/1181675/pexels-photo-1181675.jpeg?auto=compress&cs=tinysrgb&w=800",
		ContentURL:   "https://developer.mozilla.org/en-US/docs/Learn",
		VideoURL:     "https://www.youtube.com/watch?v=UB1O30fR-EE",
	},
	{
		Title:        "React Fundamentals",
		Description:  "Component-based development, hooks, state management, and routing in React.",
		Duration:     12,
		Instructor:   "Admin Instructor",
		ThumbnailURL: "https://images.pexels.com/photos/1181467/pexels-photo-1181467.jpeg?auto=compress&cs=tinysrgb&w=800",
		ContentURL:   "https://react.dev/learn",
		VideoURL:     "https://www.youtube.com/watch?v=bMknfKXIFA8",
	},
	{
		Title:        "Data Structures & Algorithms Basics",
		Description:  "Big-O notation, arrays, linked lists, stacks, queues, and common algorithms.",
		Duration:     15,
		Instructor:   "CS Instructor",
		ThumbnailURL: "https://images.pexels.com/photos/3861964/pexels-photo-3861964.jpeg?auto=compress&cs=tinysrgb&w=800",
		ContentURL:   "https://www.geeksforgeeks.org/data-structures/",
		VideoURL:     "https://www.youtube.com/watch?v=8hly31xKli0",
	},
}

func Run(ctx context.Context, store *repository.Store, logger *slog.Logger) error {
	users, err := seedAccounts(ctx, store, logger)
	if err != nil {
		return err
	}
	if err := seedTickets(ctx, store, logger, users); err != nil {
		return err
	}
	return seedCatalog(ctx, store, logger)
}

func seedAccounts(ctx context.Context, store *repository.Store, logger *slog.Logger) (map[string]model.User, error) {
	hash, err := crypto.HashPassword(seedPassword)
	if err != nil {
		return nil, err
	}

	users := make(map[string]model.User, len(seedUsers))
	for _, seed := range seedUsers {
		existing, err := store.GetUserByEmail(ctx, seed.Email)
		if err == nil {
			users[seed.Username] = existing
			logger.Info("user already seeded", "username", seed.Username)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		now := time.Now().UTC()
		user := model.User{
			ID:           uuid.NewString(),
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: hash,
			Role:         seed.Role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		users[seed.Username] = user
		logger.Info("seeded user", "username", seed.Username, "role", seed.Role)
	}
	return users, nil
}

func seedTickets(ctx context.Context, store *repository.Store, logger *slog.Logger, users map[string]model.User) error {
	student := users["student1"]
	admin := users["admin"]

	existing, err := store.ListTicketsByCreator(ctx, student.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("tickets already seeded")
		return nil
	}

	samples := []model.Ticket{
		{
			Subject:     "Issue accessing course content",
			Message:     "I cannot open the PDF for the React Fundamentals course.",
			Status:      model.TicketOpen,
			CreatorID:   student.ID,
			CreatorName: student.Username,
			CreatorRole: student.Role,
		},
		{
			Subject:     "Request new course: Advanced Node.js",
			Message:     "Please add an advanced Node.js and microservices course.",
			Status:      model.TicketOpen,
			CreatorID:   student.ID,
			CreatorName: student.Username,
			CreatorRole: student.Role,
		},
		{
			Subject:     "Bulk user import completed",
			Message:     "Imported 120 new students from CSV.",
			Status:      model.TicketClosed,
			CreatorID:   admin.ID,
			CreatorName: admin.Username,
			CreatorRole: admin.Role,
		},
	}

	now := time.Now().UTC()
	for _, ticket := range samples {
		ticket.ID = uuid.NewString()
		ticket.CreatedAt = now
		ticket.UpdatedAt = now
		if err := store.CreateTicket(ctx, ticket); err != nil {
			return err
		}
		logger.Info("seeded ticket", "subject", ticket.Subject)
	}
	return nil
}

func seedCatalog(ctx context.Context, store *repository.Store, logger *slog.Logger) error {
	existing, err := store.ListCourses(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("courses already seeded")
		return nil
	}

	now := time.Now().UTC()
	for _, course := range seedCourses {
		course.ID = uuid.NewString()
		course.CreatedAt = now
		course.UpdatedAt = now
		if err := store.CreateCourse(ctx, course); err != nil {
			return err
		}
		logger.Info("seeded course", "title", course.Title)
	}
	return nil
}

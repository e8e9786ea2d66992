package store

import (
	"time"

	"github.com/existflow/taskmgr/internal/model"
)

type sample struct {
	title       string
	description string
	opts        model.Options
	dueOffset   *int // days from today
	completedAt func(lastWeek time.Time) time.Time
}

func days(n int) *int { return &n }

var samples = []sample{
	{
		title:       "Review project proposal",
		description: "Go through the Q4 project proposal and provide feedback on the technical requirements and timeline.",
		opts: model.Options{
			Priority: model.PriorityHigh, Category: model.CategoryWork,
			Tags: []string{"urgent", "review"}, EstimatedTime: model.Minutes(60),
		},
		dueOffset: days(0),
	},
	{
		title:       "Weekly grocery shopping",
		description: "Buy groceries for the week including fresh vegetables, fruits, and pantry essentials.",
		opts: model.Options{
			Priority: model.PriorityMedium, Category: model.CategoryPersonal,
			Tags: []string{"shopping", "weekly"}, Recurring: model.RecurWeekly, EstimatedTime: model.Minutes(45),
		},
		dueOffset: days(1),
	},
	{
		title:       "Complete React Native course",
		description: "Finish the advanced React Native course modules 8-12 and complete the final project.",
		opts: model.Options{
			Status: model.StatusInProgress, Priority: model.PriorityHigh, Category: model.CategoryEducation,
			Tags: []string{"learning", "programming"}, EstimatedTime: model.Minutes(180), ActualTime: model.Minutes(90),
		},
		dueOffset: days(7),
	},
	{
		title:       "Morning workout",
		description: "30-minute cardio session followed by strength training focusing on upper body.",
		opts: model.Options{
			Status: model.StatusDone, Priority: model.PriorityMedium, Category: model.CategoryHealth,
			Tags: []string{"fitness", "morning"}, Recurring: model.RecurDaily,
			EstimatedTime: model.Minutes(45), ActualTime: model.Minutes(40),
		},
		dueOffset:   days(-7),
		completedAt: func(lastWeek time.Time) time.Time { return lastWeek.Add(8 * time.Hour) },
	},
	{
		title:       "Plan weekend trip",
		description: "Research and book accommodations for the weekend getaway. Check weather forecast and plan activities.",
		opts: model.Options{
			Priority: model.PriorityLow, Category: model.CategoryPersonal,
			Tags: []string{"travel", "planning"}, EstimatedTime: model.Minutes(30),
		},
	},
	{
		title:       "Team meeting preparation",
		description: "Prepare slides for the quarterly team meeting. Include progress reports and next quarter goals.",
		opts: model.Options{
			Status: model.StatusInProgress, Priority: model.PriorityHigh, Category: model.CategoryWork,
			Tags: []string{"meeting", "presentation"}, EstimatedTime: model.Minutes(90), ActualTime: model.Minutes(30),
		},
		dueOffset: days(1),
	},
	{
		title:       `Read "Atomic Habits"`,
		description: "Continue reading the book and take notes on key concepts for personal development.",
		opts: model.Options{
			Status: model.StatusInProgress, Priority: model.PriorityLow, Category: model.CategoryEducation,
			Tags: []string{"reading", "self-improvement"}, EstimatedTime: model.Minutes(120), ActualTime: model.Minutes(45),
		},
	},
	{
		title:       "Update portfolio website",
		description: "Add recent projects to the portfolio and update the skills section. Optimize for mobile devices.",
		opts: model.Options{
			Priority: model.PriorityMedium, Category: model.CategoryWork,
			Tags: []string{"portfolio", "web-development"}, EstimatedTime: model.Minutes(120),
		},
	},
	{
		title:       "Call dentist for appointment",
		description: "Schedule routine dental cleaning and checkup for next month.",
		opts: model.Options{
			Priority: model.PriorityMedium, Category: model.CategoryHealth,
			Tags: []string{"appointment", "health"}, EstimatedTime: model.Minutes(10),
		},
	},
	{
		title:       "Organize digital photos",
		description: "Sort through phone photos from the last 6 months and organize them into albums.",
		opts: model.Options{
			Priority: model.PriorityLow, Category: model.CategoryPersonal,
			Tags: []string{"organization", "photos"}, EstimatedTime: model.Minutes(60),
		},
	},
	{
		title:       "Submit expense report",
		description: "Compile receipts from business trip and submit monthly expense report to HR.",
		opts: model.Options{
			Priority: model.PriorityHigh, Category: model.CategoryWork,
			Tags: []string{"expenses", "deadline"}, EstimatedTime: model.Minutes(30),
		},
		dueOffset: days(1),
	},
	{
		title:       "Meal prep for the week",
		description: "Prepare healthy meals for the upcoming week. Focus on high-protein options.",
		opts: model.Options{
			Status: model.StatusDone, Priority: model.PriorityMedium, Category: model.CategoryHealth,
			Tags: []string{"meal-prep", "healthy"}, Recurring: model.RecurWeekly,
			EstimatedTime: model.Minutes(90), ActualTime: model.Minutes(85),
		},
		completedAt: func(lastWeek time.Time) time.Time { return lastWeek.Add(2 * 24 * time.Hour) },
	},
}

// SampleTasks builds the first-run seed set with dates relative to now
func SampleTasks(now time.Time, newID func() string) []model.Task {
	today := model.Today(now)
	lastWeek := now.AddDate(0, 0, -7)

	tasks := make([]model.Task, 0, len(samples))
	for _, s := range samples {
		opts := s.opts
		if s.dueOffset != nil {
			due := today.AddDays(*s.dueOffset)
			opts.DueDate = &due
		}
		if s.completedAt != nil {
			at := s.completedAt(lastWeek)
			opts.CompletedAt = &at
		}
		tasks = append(tasks, model.NewTask(newID(), s.title, s.description, opts, now))
	}
	return tasks
}

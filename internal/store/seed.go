package store

import (
	"time"

	"articlehub/internal/model"
)

var sampleTitles = []string{
	"Getting Started with React Hooks", "Advanced TypeScript Patterns", "Building Scalable APIs",
	"CSS Grid vs Flexbox Guide", "Database Optimization Tips", "Modern JavaScript Features",
	"Docker for Beginners", "GraphQL Best Practices", "Testing Strategies", "Performance Monitoring",
	"Security in Web Apps", "Microservices Architecture", "State Management Solutions",
	"Progressive Web Apps", "Serverless Computing", "Machine Learning Basics",
	"DevOps Pipeline Setup", "Mobile-First Design", "API Documentation", "Code Review Process",
	"Agile Development", "Clean Code Principles", "Design Patterns", "Version Control",
	"Continuous Integration", "User Experience Design", "Accessibility Guidelines",
	"Cross-Browser Testing", "SEO Optimization", "Content Strategy", "Digital Marketing",
	"Data Analytics", "Cloud Computing", "Cybersecurity Fundamentals", "AI Ethics",
	"Blockchain Technology", "IoT Development", "AR/VR Applications", "Game Development",
	"E-commerce Solutions", "Social Media Integration", "Payment Processing", "Email Marketing",
	"Customer Support Systems", "Project Management", "Team Collaboration", "Remote Work",
	"Productivity Tools", "Time Management", "Leadership Skills", "Communication Strategies",
}

var sampleAuthors = []string{
	"Jane Doe", "John Smith", "Alice Johnson", "Bob Wilson",
	"Sarah Chen", "Mike Rodriguez", "Emma Thompson", "David Kim",
}

// Seed returns the static fixture loaded into a fresh mock store: two fixed
// articles followed by 98 generated ones. Every third generated article is a
// draft.
func Seed() []model.Article {
	articles := []model.Article{
		{
			ID:        1,
			Title:     "Welcome to Our Platform",
			Author:    "Jane Doe",
			Status:    model.StatusPublished,
			CreatedAt: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        2,
			Title:     "Draft: Upcoming Features",
			Author:    "John Smith",
			Status:    model.StatusDraft,
			CreatedAt: time.Date(2024, time.February, 20, 14, 30, 0, 0, time.UTC),
		},
	}

	for i := 0; i < 98; i++ {
		status := model.StatusPublished
		if i%3 == 0 {
			status = model.StatusDraft
		}
		articles = append(articles, model.Article{
			ID:        len(articles) + 1,
			Title:     sampleTitles[i%len(sampleTitles)],
			Author:    sampleAuthors[i%len(sampleAuthors)],
			Status:    status,
			CreatedAt: time.Date(2024, time.Month(i%12+1), i/4+1, 9+i%14, (i*7)%60, 0, 0, time.UTC),
		})
	}
	return articles
}

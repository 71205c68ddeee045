package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"devmastery/internal/auth"
)

type seedSubTopic struct {
	Name, Slug, Description, Icon string
}

type seedTopic struct {
	Name, Slug, Description, Icon string
	SubTopics                     []seedSubTopic
}

// starterTopics is the initial taxonomy, in display order.
var starterTopics = []seedTopic{
	{
		Name: "Java", Slug: "java", Icon: "☕",
		Description: "Object-oriented programming on the JVM",
		SubTopics: []seedSubTopic{
			{Name: "Core Java", Slug: "core-java", Icon: "📘", Description: "Language fundamentals, collections and streams"},
			{Name: "Spring", Slug: "spring", Icon: "🌱", Description: "Spring Boot web framework"},
		},
	},
	{
		Name: "Python", Slug: "python", Icon: "🐍",
		Description: "General purpose programming language for scripting and data work",
		SubTopics: []seedSubTopic{
			{Name: "Basics", Slug: "basics", Icon: "📗", Description: "Syntax, data types and comprehensions"},
		},
	},
	{
		Name: "Databases", Slug: "databases", Icon: "🗄️",
		Description: "Relational database design and SQL",
		SubTopics: []seedSubTopic{
			{Name: "SQL", Slug: "sql", Icon: "🔎", Description: "Queries, joins and indexes"},
		},
	},
	{
		Name: "System Design", Slug: "system-design", Icon: "🏗️",
		Description: "Architecture of scalable distributed systems",
	},
	{
		Name: "Data Structures & Algorithms", Slug: "dsa", Icon: "🧮",
		Description: "Algorithm patterns for LeetCode interviews",
		SubTopics: []seedSubTopic{
			{Name: "Arrays", Slug: "arrays", Icon: "📊", Description: "Two pointers, sliding window and prefix sums"},
		},
	},
}

// nodeRef names a topic and optional subtopic by slug.
type nodeRef struct{ topic, sub string }

type seedBlog struct {
	at                                   nodeRef
	title, slug, excerpt, body, category string
	readTime                             int
	published                            bool
}

type seedNote struct {
	at          nodeRef
	title, body string
}

type seedProblem struct {
	at                         nodeRef
	title, difficulty, desc    string
	url                        string
	solutionLang, solution     string
	resourceTitle, resourceURL string
}

var starterBlogs = []seedBlog{
	{nodeRef{"java", ""}, "Why Java Still Matters", "why-java-still-matters",
		"A tour of the modern JVM ecosystem.", "## The JVM today\n\nRecords, virtual threads and pattern matching.", "Java", 6, true},
	{nodeRef{"java", "spring"}, "Spring Boot in Ten Minutes", "spring-boot-in-ten-minutes",
		"Build a REST service with Spring Boot.", "## Start\n\n```java\n@SpringBootApplication\nclass App {}\n```", "Java", 10, true},
	{nodeRef{"java", ""}, "JVM Internals (draft)", "jvm-internals-draft",
		"Work in progress.", "TBD", "Java", 15, false},
	{nodeRef{"databases", "sql"}, "Choosing the Right Index", "choosing-the-right-index",
		"B-tree, hash and partial indexes explained.", "## Indexes\n\nUse `EXPLAIN ANALYZE` first.", "Databases", 8, true},
	{nodeRef{"system-design", ""}, "Designing a URL Shortener", "designing-a-url-shortener",
		"A classic interview question, end to end.", "## Requirements\n\n- Shorten\n- Redirect\n- Analytics", "System Design", 12, true},
}

var starterNotes = []seedNote{
	{nodeRef{"java", "core-java"}, "Streams Cheat Sheet", "`map`, `filter`, `collect(Collectors.groupingBy(...))`."},
	{nodeRef{"python", "basics"}, "List Comprehensions", "`[x * x for x in range(10) if x % 2 == 0]`"},
	{nodeRef{"databases", ""}, "Normalization", "1NF, 2NF, 3NF and when to denormalize."},
}

var starterProblems = []seedProblem{
	{nodeRef{"dsa", "arrays"}, "Two Sum", "EASY",
		"Return indices of the two numbers that add up to target.", "https://leetcode.com/problems/two-sum/",
		"java", "Map<Integer, Integer> seen = new HashMap<>();", "Hash map approach", "https://leetcode.com/problems/two-sum/editorial/"},
	{nodeRef{"dsa", ""}, "LRU Cache", "MEDIUM",
		"Design a data structure that follows the constraints of a Least Recently Used cache.", "https://leetcode.com/problems/lru-cache/",
		"python", "from collections import OrderedDict", "", ""},
	{nodeRef{"databases", "sql"}, "Second Highest Salary", "MEDIUM",
		"Find the second highest distinct salary.", "https://leetcode.com/problems/second-highest-salary/",
		"sql", "SELECT MAX(salary) FROM employee WHERE salary < (SELECT MAX(salary) FROM employee);", "", ""},
}

// Seed populates the database with the starter taxonomy, sample content and
// an admin user. It is a no-op when topics already exist. The admin API key
// is only ever shown in the log line emitted here.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM topics").Scan(&count); err != nil {
		return fmt.Errorf("seed check topics: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	adminID, apiKey, err := seedAdmin(tx)
	if err != nil {
		return err
	}

	topicIDs := make(map[string]uuid.UUID)
	subIDs := make(map[nodeRef]uuid.UUID)

	for i, t := range starterTopics {
		var topicID uuid.UUID
		err := tx.QueryRow(`
			INSERT INTO topics (name, slug, description, icon, sort_order)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, t.Name, t.Slug, t.Description, t.Icon, i).Scan(&topicID)
		if err != nil {
			return fmt.Errorf("seed topic %s: %w", t.Slug, err)
		}
		topicIDs[t.Slug] = topicID

		for j, st := range t.SubTopics {
			var subID uuid.UUID
			err := tx.QueryRow(`
				INSERT INTO sub_topics (topic_id, name, slug, description, icon, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
			`, topicID, st.Name, st.Slug, st.Description, st.Icon, j).Scan(&subID)
			if err != nil {
				return fmt.Errorf("seed subtopic %s/%s: %w", t.Slug, st.Slug, err)
			}
			subIDs[nodeRef{t.Slug, st.Slug}] = subID
		}
	}

	// Records attached to a subtopic also carry the parent topic id.
	ids := func(ref nodeRef) (uuid.UUID, *uuid.UUID) {
		topicID := topicIDs[ref.topic]
		if ref.sub == "" {
			return topicID, nil
		}
		sub := subIDs[ref]
		return topicID, &sub
	}

	for _, b := range starterBlogs {
		topicID, subID := ids(b.at)
		_, err := tx.Exec(`
			INSERT INTO blogs (title, slug, excerpt, content, category, read_time, published,
			                   author_id, topic_id, sub_topic_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, b.title, b.slug, b.excerpt, b.body, b.category, b.readTime, b.published, adminID, topicID, subID)
		if err != nil {
			return fmt.Errorf("seed blog %s: %w", b.slug, err)
		}
	}

	for _, n := range starterNotes {
		topicID, subID := ids(n.at)
		_, err := tx.Exec(`
			INSERT INTO notes (title, content, author_id, topic_id, sub_topic_id)
			VALUES ($1, $2, $3, $4, $5)
		`, n.title, n.body, adminID, topicID, subID)
		if err != nil {
			return fmt.Errorf("seed note %q: %w", n.title, err)
		}
	}

	for _, p := range starterProblems {
		topicID, subID := ids(p.at)
		var problemID uuid.UUID
		err := tx.QueryRow(`
			INSERT INTO leetcode_problems (title, difficulty, description, leetcode_url,
			                               author_id, topic_id, sub_topic_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
		`, p.title, p.difficulty, p.desc, p.url, adminID, topicID, subID).Scan(&problemID)
		if err != nil {
			return fmt.Errorf("seed problem %q: %w", p.title, err)
		}

		if _, err := tx.Exec(`
			INSERT INTO problem_solutions (problem_id, language, code) VALUES ($1, $2, $3)
		`, problemID, p.solutionLang, p.solution); err != nil {
			return fmt.Errorf("seed solution for %q: %w", p.title, err)
		}

		if p.resourceURL != "" {
			if _, err := tx.Exec(`
				INSERT INTO problem_resources (problem_id, title, url) VALUES ($1, $2, $3)
			`, problemID, p.resourceTitle, p.resourceURL); err != nil {
				return fmt.Errorf("seed resource for %q: %w", p.title, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded",
		"topics", len(starterTopics),
		"admin_email", "admin@devmastery.local",
		"admin_api_key", apiKey,
	)
	return nil
}

// seedAdmin inserts the admin user and returns its id and plaintext API key.
func seedAdmin(tx *sql.Tx) (uuid.UUID, string, error) {
	secret, hash, err := auth.NewSecret()
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("seed api key: %w", err)
	}

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO users (email, name, role, api_key_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET api_key_hash = EXCLUDED.api_key_hash
		RETURNING id
	`, "admin@devmastery.local", "Admin", "admin", hash).Scan(&id)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("seed insert admin: %w", err)
	}

	return id, auth.FormatKey(id, secret), nil
}

// SeedFake adds n generated blogs, notes and problems spread across the
// existing topics. It is meant for local load and UI testing.
func SeedFake(db *sql.DB, n int, seed int64) error {
	var authorID uuid.UUID
	if err := db.QueryRow(`SELECT id FROM users WHERE role = 'admin' ORDER BY created_at LIMIT 1`).Scan(&authorID); err != nil {
		return fmt.Errorf("fake seed find author: %w", err)
	}

	rows, err := db.Query(`SELECT id FROM topics ORDER BY sort_order`)
	if err != nil {
		return fmt.Errorf("fake seed list topics: %w", err)
	}
	var topicIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("fake seed scan topic: %w", err)
		}
		topicIDs = append(topicIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("fake seed list topics: %w", err)
	}
	if len(topicIDs) == 0 {
		return fmt.Errorf("fake seed: no topics, run seed first")
	}

	f := gofakeit.New(seed)
	difficulties := []string{"EASY", "MEDIUM", "HARD"}

	for i := 0; i < n; i++ {
		topicID := topicIDs[f.Number(0, len(topicIDs)-1)]
		title := f.Sentence(5)

		if _, err := db.Exec(`
			INSERT INTO blogs (title, slug, excerpt, content, category, read_time, published, author_id, topic_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, title, fmt.Sprintf("fake-%d-%s", seed, f.UUID()), f.Sentence(12), f.Paragraph(3, 4, 12, "\n\n"),
			f.BuzzWord(), f.Number(2, 20), f.Bool(), authorID, topicID); err != nil {
			return fmt.Errorf("fake seed blog: %w", err)
		}

		if _, err := db.Exec(`
			INSERT INTO notes (title, content, author_id, topic_id) VALUES ($1, $2, $3, $4)
		`, f.Sentence(4), f.Paragraph(2, 3, 10, "\n\n"), authorID, topicID); err != nil {
			return fmt.Errorf("fake seed note: %w", err)
		}

		if _, err := db.Exec(`
			INSERT INTO leetcode_problems (title, difficulty, description, author_id, topic_id)
			VALUES ($1, $2, $3, $4, $5)
		`, f.Sentence(3), f.RandomString(difficulties), f.Paragraph(1, 3, 10, " "), authorID, topicID); err != nil {
			return fmt.Errorf("fake seed problem: %w", err)
		}
	}

	slog.Info("fake content seeded", "records", n*3)
	return nil
}

// Package seed creates demo families with stories, likes and comments.
// It is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"heirloom/internal/models"
	"heirloom/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	Families         int
	MembersPerFamily int
	StoriesPerMember int
	Clean            bool
}

// Result counts what a run created.
type Result struct {
	Users    int
	Stories  int
	Media    int
	Likes    int
	Comments int
}

var memoryTopics = []string{
	"wedding", "first day of school", "road trip", "holiday dinner", "graduation",
	"new baby", "camping weekend", "birthday party", "family reunion", "move to the new house",
}

// Seeder writes demo data through the same repositories the API uses.
type Seeder struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	stories repository.StoryRepository
	ledger  repository.InteractionRepository
}

// NewSeeder creates a Seeder bound to db. A non-zero seed makes the generated
// content reproducible.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		db:      db,
		faker:   gofakeit.New(seed),
		stories: repository.NewStoryRepository(db),
		ledger:  repository.NewInteractionRepository(db),
	}
}

// ClearAll removes every story, interaction and user.
func (s *Seeder) ClearAll() error {
	session := s.db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Interaction{}, &models.MediaFile{}, &models.Story{}, &models.User{}} {
		if err := session.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	log.Println("✓ existing data cleared")
	return nil
}

// Run seeds opts.Families families. Members of a family like and comment on
// each other's stories.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return res, err
		}
	}

	for i := 0; i < opts.Families; i++ {
		members, err := s.createFamily(ctx, opts.MembersPerFamily)
		if err != nil {
			return res, fmt.Errorf("family %d: %w", i+1, err)
		}
		res.Users += len(members)

		for _, author := range members {
			for j := 0; j < opts.StoriesPerMember; j++ {
				story, mediaCount, err := s.createStory(ctx, author)
				if err != nil {
					return res, err
				}
				res.Stories++
				res.Media += mediaCount

				likes, comments, err := s.engage(ctx, story.ID, members)
				if err != nil {
					return res, err
				}
				res.Likes += likes
				res.Comments += comments
			}
		}
	}

	log.Printf("✓ seeded %d users, %d stories, %d media, %d likes, %d comments",
		res.Users, res.Stories, res.Media, res.Likes, res.Comments)
	return res, nil
}

func (s *Seeder) createFamily(ctx context.Context, size int) ([]models.User, error) {
	surname := s.faker.LastName()
	members := make([]models.User, 0, size)
	for i := 0; i < size; i++ {
		first := s.faker.FirstName()
		email := fmt.Sprintf("%s.%s.%d@example.com", first, surname, s.faker.Number(1000, 9999))
		members = append(members, models.User{
			ID:              uuid.NewString(),
			Email:           &email,
			FirstName:       first,
			LastName:        surname,
			ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
		})
	}
	if len(members) == 0 {
		return members, nil
	}
	if err := s.db.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Seeder) createStory(ctx context.Context, author models.User) (*models.Story, int, error) {
	topic := memoryTopics[s.faker.Number(0, len(memoryTopics)-1)]
	story := &models.Story{
		Title:       fmt.Sprintf("The %s, %s", topic, s.faker.Word()),
		Description: s.faker.Paragraph(1, 3, 12, "\n"),
		EventDate:   s.faker.DateRange(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), time.Now().UTC()).Truncate(24 * time.Hour),
		AuthorID:    author.ID,
	}

	media := make([]models.MediaFile, s.faker.Number(0, 3))
	for i := range media {
		name := fmt.Sprintf("seed-%s.jpg", s.faker.UUID())
		url := fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", name)
		media[i] = models.MediaFile{
			Filename:      name,
			OriginalName:  s.faker.Word() + ".jpg",
			MimeType:      "image/jpeg",
			FileSize:      int64(s.faker.Number(50_000, 4_000_000)),
			FilePath:      url,
			ThumbnailPath: fmt.Sprintf("https://picsum.photos/seed/%s/320/213", name),
		}
	}

	if err := s.stories.Create(ctx, story, media); err != nil {
		return nil, 0, fmt.Errorf("create story: %w", err)
	}
	return story, len(media), nil
}

func (s *Seeder) engage(ctx context.Context, storyID uint, members []models.User) (likes, comments int, err error) {
	for _, member := range members {
		if s.faker.Bool() {
			like := &models.Interaction{StoryID: storyID, UserID: member.ID, Kind: models.InteractionLike}
			if err := s.ledger.Record(ctx, like); err != nil {
				return likes, comments, err
			}
			likes++
		}
		if s.faker.Number(0, 3) == 0 {
			text := s.faker.Sentence(s.faker.Number(4, 14))
			comment := &models.Interaction{StoryID: storyID, UserID: member.ID, Kind: models.InteractionComment, Content: &text}
			if err := s.ledger.Record(ctx, comment); err != nil {
				return likes, comments, err
			}
			comments++
		}
	}
	return likes, comments, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// AccountRepository removes everything a user owns
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// DeleteUserData deletes the user and every row they own in one transaction
func (r *AccountRepository) DeleteUserData(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.MatchPlayer{}).Error; err != nil {
			return err
		}

		var hosted []uuid.UUID
		if err := tx.Model(&model.Match{}).Where("host_id = ?", userID).Pluck("id", &hosted).Error; err != nil {
			return err
		}
		if err := deleteMatches(tx, hosted); err != nil {
			return err
		}

		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}

		var owned []uuid.UUID
		if err := tx.Unscoped().Model(&model.Room{}).Where("owner_id = ?", userID).Pluck("id", &owned).Error; err != nil {
			return err
		}
		if err := deleteRooms(tx, owned); err != nil {
			return err
		}

		if err := tx.Model(&model.Flashcard{}).
			Where("category_id IN (?)", tx.Model(&model.Category{}).Select("id").Where("user_id = ?", userID)).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		owns := []interface{}{
			&model.RoomMember{},
			&model.Notification{},
			&model.Flashcard{},
			&model.Category{},
			&model.JournalEntry{},
			&model.Task{},
			&model.Goal{},
			&model.PomodoroSession{},
			&model.PomodoroSettings{},
			&model.UserPreferences{},
			&model.UserDevice{},
			&model.OTPCode{},
		}
		for _, m := range owns {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Where("id = ?", userID).Delete(&model.User{}).Error
	})
}

// deleteMatches removes matches with their rounds, answers and players
func deleteMatches(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("match_id IN ?", ids).Delete(&model.Answer{}).Error; err != nil {
		return err
	}
	if err := tx.Where("match_id IN ?", ids).Delete(&model.Round{}).Error; err != nil {
		return err
	}
	if err := tx.Where("match_id IN ?", ids).Delete(&model.MatchPlayer{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Match{}).Error
}

// deleteRooms hard-deletes rooms and everything scoped to them. Pomodoro
// sessions logged in a room are kept and detached.
func deleteRooms(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	var matches []uuid.UUID
	if err := tx.Model(&model.Match{}).Where("room_id IN ?", ids).Pluck("id", &matches).Error; err != nil {
		return err
	}
	if err := deleteMatches(tx, matches); err != nil {
		return err
	}

	if err := tx.Unscoped().Where("room_id IN ?", ids).Delete(&model.ChatMessage{}).Error; err != nil {
		return err
	}
	if err := tx.Where("room_id IN ?", ids).Delete(&model.RoomMember{}).Error; err != nil {
		return err
	}
	if err := tx.Where("room_id IN ?", ids).Delete(&model.Flashcard{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Flashcard{}).
		Where("category_id IN (?)", tx.Model(&model.Category{}).Select("id").Where("room_id IN ?", ids)).
		Update("category_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("room_id IN ?", ids).Delete(&model.Category{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.PomodoroSession{}).Where("room_id IN ?", ids).
		Update("room_id", nil).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", ids).Delete(&model.Room{}).Error
}

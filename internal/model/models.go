package model

// All returns every persisted model, in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserDevice{},
		&OTPCode{},
		&Room{},
		&RoomMember{},
		&Category{},
		&Flashcard{},
		&JournalEntry{},
		&Goal{},
		&Task{},
		&Notification{},
		&ChatMessage{},
		&PomodoroSettings{},
		&PomodoroSession{},
		&UserPreferences{},
		&Match{},
		&MatchPlayer{},
		&Round{},
		&Answer{},
	}
}

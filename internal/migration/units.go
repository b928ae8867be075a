package migration

import (
	"context"
	"fmt"
)

// Registered lists the production units. cmd/migrate create prints a stub
// to append here.
func Registered() []Unit {
	return []Unit{
		initial(),
		completeUserIDMigration(),
		submissionsTables(),
	}
}

func initial() Unit {
	return Unit{
		Name: "20250930174523_initial",
		Up: Statements(
			`CREATE TABLE IF NOT EXISTS users (
				id INT AUTO_INCREMENT PRIMARY KEY,
				email VARCHAR(255) NOT NULL UNIQUE,
				password VARCHAR(255) NULL,
				first_name VARCHAR(255) NULL,
				last_name VARCHAR(255) NULL,
				google_id VARCHAR(255) NULL,
				profile_picture VARCHAR(255) NULL,
				is_confirmed BOOLEAN DEFAULT FALSE,
				last_password_reset_at TIMESTAMP NULL,
				last_email_confirmation_at TIMESTAMP NULL,
				lang VARCHAR(255) DEFAULT 'en',
				theme VARCHAR(255) DEFAULT 'light',
				created_by_id INT NULL,
				updated_by_id INT NULL,
				role ENUM('ADMIN','USER') DEFAULT 'USER',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS stores (
				id CHAR(36) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				address VARCHAR(512) NULL,
				image_src VARCHAR(1024) NULL,
				created_by_id CHAR(36) NULL,
				updated_by_id CHAR(36) NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS planograms (
				id CHAR(36) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				image_src VARCHAR(1024) NULL,
				store_id CHAR(36) NOT NULL,
				created_by_id CHAR(36) NULL,
				updated_by_id CHAR(36) NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				CONSTRAINT fk_planograms_store_id FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE
			)`,
		),
		Down: Statements(
			`DROP TABLE IF EXISTS planograms`,
			`DROP TABLE IF EXISTS stores`,
			`DROP TABLE IF EXISTS users`,
		),
	}
}

// completeUserIDMigration moves users from integer ids to CHAR(36) uuids.
// Old integer ids and audit references are discarded, so there is no way back.
func completeUserIDMigration() Unit {
	return Unit{
		Name: "20250930213816_complete_user_id_migration",
		Up: func(ctx context.Context, conn Conn) error {
			var types []string
			err := conn.Select(ctx, &types, `SELECT DATA_TYPE FROM information_schema.COLUMNS
				WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'users' AND COLUMN_NAME = 'id'`)
			if err != nil {
				return fmt.Errorf("inspect users.id: %w", err)
			}
			if len(types) == 1 && types[0] == "char" {
				return nil
			}
			return Statements(
				`ALTER TABLE users ADD COLUMN id_new CHAR(36) NULL`,
				`UPDATE users SET id_new = UUID()`,
				`ALTER TABLE users MODIFY id INT NOT NULL`,
				`ALTER TABLE users DROP PRIMARY KEY`,
				`ALTER TABLE users DROP COLUMN id`,
				`ALTER TABLE users CHANGE COLUMN id_new id CHAR(36) NOT NULL`,
				`ALTER TABLE users ADD PRIMARY KEY (id)`,
				`ALTER TABLE users MODIFY created_by_id CHAR(36) NULL`,
				`ALTER TABLE users MODIFY updated_by_id CHAR(36) NULL`,
				`UPDATE users SET created_by_id = NULL, updated_by_id = NULL`,
			)(ctx, conn)
		},
		Down: Irreversible("user ids were regenerated; restore from backup"),
	}
}

func submissionsTables() Unit {
	return Unit{
		Name: "20250930220916_submissions_tables",
		Up: Statements(
			`CREATE TABLE IF NOT EXISTS submissions (
				id CHAR(36) PRIMARY KEY,
				uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				uploaded_by_id CHAR(36) NOT NULL,
				store_id CHAR(36) NOT NULL,
				planogram_id CHAR(36) NOT NULL,
				upload_ids JSON NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				CONSTRAINT fk_submissions_uploaded_by_id FOREIGN KEY (uploaded_by_id) REFERENCES users(id) ON DELETE CASCADE,
				CONSTRAINT fk_submissions_store_id FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE,
				CONSTRAINT fk_submissions_planogram_id FOREIGN KEY (planogram_id) REFERENCES planograms(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS uploads (
				id CHAR(36) PRIMARY KEY,
				filename VARCHAR(255) NOT NULL,
				filesize VARCHAR(50) NOT NULL,
				file_type VARCHAR(100) NOT NULL,
				uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				uploaded_by_id CHAR(36) NOT NULL,
				store_id CHAR(36) NOT NULL,
				planogram_id CHAR(36) NOT NULL,
				submission_id CHAR(36) NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				CONSTRAINT fk_uploads_uploaded_by_id FOREIGN KEY (uploaded_by_id) REFERENCES users(id) ON DELETE CASCADE,
				CONSTRAINT fk_uploads_store_id FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE,
				CONSTRAINT fk_uploads_planogram_id FOREIGN KEY (planogram_id) REFERENCES planograms(id) ON DELETE CASCADE,
				CONSTRAINT fk_uploads_submission_id FOREIGN KEY (submission_id) REFERENCES submissions(id) ON DELETE CASCADE
			)`,
		),
		Down: Statements(
			`DROP TABLE IF EXISTS uploads`,
			`DROP TABLE IF EXISTS submissions`,
		),
	}
}

package main

import (
	"errors"
	"testing"

	"schoolku_backend/internals/constants"
	authService "schoolku_backend/internals/features/users/auth/service"
	userModel "schoolku_backend/internals/features/users/users/model"
	"schoolku_backend/internals/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func withPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestRunUsage(t *testing.T) {
	cli := commandLine{}
	assert.ErrorIs(t, cli.run([]string{"admin"}), errHelp)
	assert.ErrorIs(t, cli.run([]string{"admin", "unknown"}), errHelp)
	assert.ErrorIs(t, cli.run([]string{"admin", "adduser", "-email", "a@b.test"}), errHelp)
	assert.ErrorIs(t, cli.run([]string{"admin", "resetpassword"}), errHelp)
}

func TestMigrate(t *testing.T) {
	called := false
	orig := autoMigrateFunc
	autoMigrateFunc = func(*gorm.DB) error { called = true; return nil }
	t.Cleanup(func() { autoMigrateFunc = orig })

	cli := commandLine{}
	require.NoError(t, cli.run([]string{"admin", "migrate"}))
	assert.True(t, called)
}

func TestAddUser(t *testing.T) {
	db := testutil.NewDB(t)
	cli := commandLine{db: db}

	withPassword(t, "court", nil)
	assert.ErrorIs(t, cli.run([]string{"admin", "adduser", "-email", "root@schoolku.test", "-name", "Root"}), errShortPassword)

	withPassword(t, "", nil)
	assert.ErrorIs(t, cli.run([]string{"admin", "adduser", "-email", "root@schoolku.test", "-name", "Root"}), errHelp)

	withPassword(t, "", errors.New("no tty"))
	assert.EqualError(t, cli.run([]string{"admin", "adduser", "-email", "root@schoolku.test", "-name", "Root"}), "no tty")

	withPassword(t, "super-secret-1", nil)
	require.NoError(t, cli.run([]string{"admin", "adduser", "-email", " Root@Schoolku.test", "-name", "Root", "-superadmin"}))

	var u userModel.UserModel
	require.NoError(t, db.Where("email = ?", "root@schoolku.test").Take(&u).Error)
	assert.Equal(t, constants.RoleSuperAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, authService.CheckPassword(u.PasswordHash, "super-secret-1"))

	// running it again without -superadmin keeps the role and rotates the password
	withPassword(t, "another-secret", nil)
	require.NoError(t, cli.run([]string{"admin", "adduser", "-email", "root@schoolku.test", "-name", "Root Renamed"}))
	var again userModel.UserModel
	require.NoError(t, db.Where("email = ?", "root@schoolku.test").Take(&again).Error)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, constants.RoleSuperAdmin, again.Role)
	assert.Equal(t, "Root Renamed", again.FullName)
}

func TestResetPassword(t *testing.T) {
	db := testutil.NewDB(t)
	cli := commandLine{db: db}
	u := testutil.User(t, db, "prof@alpha.test", constants.RoleUser)

	withPassword(t, "brand-new-pass", nil)
	require.NoError(t, cli.run([]string{"admin", "resetpassword", "-email", "prof@alpha.test"}))

	var got userModel.UserModel
	require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
	assert.NoError(t, authService.CheckPassword(got.PasswordHash, "brand-new-pass"))

	withPassword(t, "brand-new-pass", nil)
	assert.ErrorIs(t, cli.run([]string{"admin", "resetpassword", "-email", "ghost@alpha.test"}), gorm.ErrRecordNotFound)
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	cli := commandLine{db: db}

	require.NoError(t, cli.run([]string{"admin", "seed-demo"}))
	require.NoError(t, cli.run([]string{"admin", "seed-demo"}))

	var schools int64
	require.NoError(t, db.Table("schools").Count(&schools).Error)
	assert.Equal(t, int64(1), schools)

	var admin userModel.UserModel
	require.NoError(t, db.Where("email = ?", "admin@palmiers.demo").Take(&admin).Error)
	assert.NoError(t, authService.CheckPassword(admin.PasswordHash, "demo-admin-2025"))
}

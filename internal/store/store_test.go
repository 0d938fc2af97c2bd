package store

import (
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mikanbox/pan115-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if err := testDB.AutoMigrate(&model.Credential{}); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func newStore() *CredentialStore {
	return NewCredentialStore(testDB)
}

func TestCreate_DuplicateName(t *testing.T) {
	s := newStore()

	_, err := s.Create("user-dup", "main", "u1", "c1", "s1", "k1")
	assert.NoError(t, err)

	// 同用户同名第二次必须失败
	_, err = s.Create("user-dup", "main", "u2", "c2", "s2", "k2")
	assert.ErrorIs(t, err, ErrDuplicateName)

	// 不同用户可以用同一个名字
	_, err = s.Create("user-dup-2", "main", "u3", "c3", "s3", "k3")
	assert.NoError(t, err)
}

func TestCreate_SetsTimestamps(t *testing.T) {
	s := newStore()

	cred, err := s.Create("user-ts", "acc", "u", "c", "se", "k")
	assert.NoError(t, err)
	assert.NotZero(t, cred.CreatedAt)
	assert.Equal(t, cred.CreatedAt, cred.UpdatedAt)
}

func TestUpdate(t *testing.T) {
	s := newStore()

	cred, err := s.Create("user-upd", "old-name", "u", "c", "se", "k")
	assert.NoError(t, err)

	// 部分更新：只改 name 和 uid，其余保持
	newName := "new-name"
	newUID := "u-2"
	updated, err := s.Update(cred.ID, UpdateFields{Name: &newName, UID: &newUID})
	assert.NoError(t, err)
	assert.Equal(t, "new-name", updated.Name)
	assert.Equal(t, "u-2", updated.UID)
	assert.Equal(t, "c", updated.CID)
	assert.GreaterOrEqual(t, updated.UpdatedAt, cred.UpdatedAt)

	// 不存在的 id
	_, err = s.Update(99999, UpdateFields{Name: &newName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_RenameConflict(t *testing.T) {
	s := newStore()

	_, err := s.Create("user-ren", "first", "u", "c", "se", "k")
	assert.NoError(t, err)
	second, err := s.Create("user-ren", "second", "u", "c", "se", "k")
	assert.NoError(t, err)

	// 改成同用户已占用的名字
	taken := "first"
	_, err = s.Update(second.ID, UpdateFields{Name: &taken})
	assert.ErrorIs(t, err, ErrDuplicateName)

	// 名字不变的更新不算冲突
	same := "second"
	_, err = s.Update(second.ID, UpdateFields{Name: &same})
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	s := newStore()

	cred, err := s.Create("user-del", "gone", "u", "c", "se", "k")
	assert.NoError(t, err)

	assert.NoError(t, s.Delete(cred.ID))
	assert.ErrorIs(t, s.Delete(cred.ID), ErrNotFound)

	_, err = s.Get(cred.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAllForUser(t *testing.T) {
	s := newStore()

	// 没有记录时返回 0 且不报错
	count, err := s.DeleteAllForUser("user-empty")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, _ = s.Create("user-bulk", "a", "u", "c", "se", "k")
	_, _ = s.Create("user-bulk", "b", "u", "c", "se", "k")
	_, _ = s.Create("user-other", "a", "u", "c", "se", "k")

	count, err = s.DeleteAllForUser("user-bulk")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 别的用户不受影响
	n, err := s.CountForUser("user-other")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListAndLatest_Order(t *testing.T) {
	s := newStore()

	first, _ := s.Create("user-ord", "one", "u", "c", "se", "k")
	second, _ := s.Create("user-ord", "two", "u", "c", "se", "k")
	third, _ := s.Create("user-ord", "three", "u", "c", "se", "k")

	list, err := s.ListForUser("user-ord")
	assert.NoError(t, err)
	if assert.Len(t, list, 3) {
		assert.Equal(t, third.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
		assert.Equal(t, first.ID, list[2].ID)
	}

	latest, err := s.LatestForUser("user-ord", 0) // limit<=0 退到 1
	assert.NoError(t, err)
	if assert.Len(t, latest, 1) {
		assert.Equal(t, third.ID, latest[0].ID)
	}

	latest, err = s.LatestForUser("user-ord", 2)
	assert.NoError(t, err)
	assert.Len(t, latest, 2)
}

func TestCreateFromCookie(t *testing.T) {
	s := newStore()

	cred, err := s.CreateFromCookie("user-ck", "imported", "UID=a; CID=b; SEID=c; KID=d")
	assert.NoError(t, err)
	assert.Equal(t, "a", cred.UID)
	assert.Equal(t, "b", cred.CID)
	assert.Equal(t, "c", cred.SEID)
	assert.Equal(t, "d", cred.KID)

	// 不完整的 cookie 串不落库
	_, err = s.CreateFromCookie("user-ck", "partial", "UID=a")
	assert.Error(t, err)
	n, _ := s.CountForUser("user-ck")
	assert.Equal(t, int64(1), n)

	// 同名导入同样触发唯一性约束
	_, err = s.CreateFromCookie("user-ck", "imported", "UID=x;CID=y;SEID=z;KID=w")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

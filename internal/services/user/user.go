// Package user содержит бизнес-логику администрирования учётных записей:
// создание, изменение полей, аутентификацию, мягкое и полное удаление,
// восстановление. Правила авторизации admin-vs-self и порядок проверок
// сосредоточены здесь; транспорт и хранилище подключаются через интерфейсы.
package user

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/users-administration/internal/lib/apperr"
	"github.com/magabrotheeeer/users-administration/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
	"github.com/magabrotheeeer/users-administration/internal/models"
	"github.com/magabrotheeeer/users-administration/internal/validation"
)

// Repository описывает контракт хранилища учётных записей.
//
// Записи хранятся с уникальным логином среди всех, включая отозванные.
// GetByLogin возвращает (nil, nil), когда запись отсутствует; ошибка
// означает отказ самого хранилища. Update находит запись по UID и при
// смене логина перекладывает её под новый ключ.
type Repository interface {
	// Insert сохраняет новую учётную запись.
	Insert(ctx context.Context, u models.User) error

	// GetByLogin возвращает запись по логину или (nil, nil), если её нет.
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	// GetAll возвращает все записи, включая отозванные.
	GetAll(ctx context.Context) ([]*models.User, error)

	// Update заменяет запись с тем же UID.
	Update(ctx context.Context, u models.User) error

	// Remove удаляет запись по логину, true — если запись существовала.
	Remove(ctx context.Context, login string) (bool, error)
}

// Cache описывает методы для кэширования проекций на путях чтения.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события жизненного цикла учётных записей.
type EventPublisher interface {
	Publish(routingKey string, event rabbitmq.Event) error
}

// Service реализует операции администрирования учётных записей.
//
// Сервис не хранит состояния между вызовами и не выполняет блокировок:
// две конкурентные операции над одним логином могут потерять обновление.
// Это унаследованная слабость нетранзакционного хранилища, см. DESIGN.md.
type Service struct {
	repo   Repository
	cache  Cache          // может быть nil, тогда пути чтения идут мимо кеша
	events EventPublisher // может быть nil, тогда события не публикуются
	log    *slog.Logger
}

const infoCacheTTL = 5 * time.Minute

// New создает новый Service поверх хранилища.
func New(repo Repository, cache Cache, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// Create создает учётную запись после валидации полей, проверки
// уникальности логина среди всех записей и, для администраторов,
// проверки прав создающего актора.
func (s *Service) Create(ctx context.Context, req models.CreateUserRequest, createdBy string) error {
	const op = "services.user.Create"

	if err := validation.Login(req.Login); err != nil {
		return err
	}
	if err := validation.Password(req.Password); err != nil {
		return err
	}
	if err := validation.Name(req.Name); err != nil {
		return err
	}

	existing, err := s.repo.GetByLogin(ctx, req.Login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return apperr.ErrConflict
	}

	if req.IsAdmin {
		creator, err := s.repo.GetByLogin(ctx, createdBy)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if creator == nil || !creator.IsAdmin || !creator.IsActive() {
			return apperr.Forbidden("only an admin can create admins")
		}
	}

	u := models.User{
		UID:       uuid.New().String(),
		Login:     req.Login,
		Password:  req.Password,
		Name:      req.Name,
		Gender:    req.Gender,
		Birthday:  req.Birthday,
		IsAdmin:   req.IsAdmin,
		CreatedOn: time.Now().UTC(),
		CreatedBy: createdBy,
	}

	if err := s.repo.Insert(ctx, u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user created", slog.String("login", u.Login), slog.Bool("is_admin", u.IsAdmin))
	s.publish(rabbitmq.KeyCreated, u.Login, createdBy)
	return nil
}

// UpdateName меняет имя пользователя. Разрешено самому пользователю
// или администратору.
func (s *Service) UpdateName(ctx context.Context, login, newName, actor string) error {
	if err := validation.Name(newName); err != nil {
		return err
	}
	return s.updateField(ctx, login, actor, func(u *models.User) {
		u.Name = newName
	})
}

// UpdateBirthday меняет дату рождения. Формат даты не ограничен,
// значение может быть сброшено в nil.
func (s *Service) UpdateBirthday(ctx context.Context, login string, newBirthday *time.Time, actor string) error {
	return s.updateField(ctx, login, actor, func(u *models.User) {
		u.Birthday = newBirthday
	})
}

// UpdateGender меняет код пола пользователя.
func (s *Service) UpdateGender(ctx context.Context, login string, newGender int, actor string) error {
	if err := validation.Gender(newGender); err != nil {
		return err
	}
	return s.updateField(ctx, login, actor, func(u *models.User) {
		u.Gender = newGender
	})
}

// UpdatePassword меняет пароль пользователя.
func (s *Service) UpdatePassword(ctx context.Context, login, newPassword, actor string) error {
	if err := validation.Password(newPassword); err != nil {
		return err
	}
	return s.updateField(ctx, login, actor, func(u *models.User) {
		u.Password = newPassword
	})
}

// UpdateLogin переименовывает учётную запись. Новый логин проверяется на
// уникальность среди всех записей, включая отозванные; хранилище
// перекладывает запись под новый ключ.
func (s *Service) UpdateLogin(ctx context.Context, oldLogin, newLogin, actor string) error {
	const op = "services.user.UpdateLogin"

	if err := validation.Login(newLogin); err != nil {
		return err
	}

	existing, err := s.repo.GetByLogin(ctx, newLogin)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return apperr.ErrConflict
	}

	if err := s.updateField(ctx, oldLogin, actor, func(u *models.User) {
		u.Login = newLogin
	}); err != nil {
		return err
	}

	s.invalidateInfo(newLogin)
	return nil
}

// GetActiveUsers возвращает все активные учётные записи в хронологическом
// порядке создания. Только для администраторов.
func (s *Service) GetActiveUsers(ctx context.Context, actor string) ([]*models.User, error) {
	const op = "services.user.GetActiveUsers"

	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	active := make([]*models.User, 0, len(all))
	for _, u := range all {
		if u.IsActive() {
			active = append(active, u)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedOn.Before(active[j].CreatedOn)
	})
	return active, nil
}

// GetUserByLogin возвращает урезанную проекцию активной учётной записи.
// Только для администраторов. Проекция кешируется на короткий срок.
func (s *Service) GetUserByLogin(ctx context.Context, login, actor string) (*models.UserInfo, error) {
	const op = "services.user.GetUserByLogin"

	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	cacheKey := infoCacheKey(login)
	if s.cache != nil {
		var cached models.UserInfo
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read user info from cache", slog.String("key", cacheKey), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u == nil || !u.IsActive() {
		return nil, apperr.NotFound("user is missing or revoked")
	}

	info := u.Info()
	if s.cache != nil {
		if err := s.cache.Set(cacheKey, info, infoCacheTTL); err != nil {
			s.log.Warn("failed to cache user info", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return &info, nil
}

// Authenticate проверяет логин и пароль и возвращает полную запись
// пользователя. Авторизация не требуется: это сама примитивная операция
// аутентификации. Пароли сравниваются за постоянное время.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	const op = "services.user.Authenticate"

	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u == nil || !u.IsActive() {
		return nil, apperr.NotFound("user is missing or revoked")
	}

	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return nil, apperr.Forbidden("wrong password")
	}
	return u, nil
}

// GetUsersOlderThan возвращает активных пользователей, чей возраст строго
// больше age. Возраст считается вычитанием календарных лет без учёта
// месяца и дня, как в исходной системе. Только для администраторов.
func (s *Service) GetUsersOlderThan(ctx context.Context, age int, actor string) ([]*models.User, error) {
	const op = "services.user.GetUsersOlderThan"

	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	currentYear := time.Now().UTC().Year()
	var result []*models.User
	for _, u := range all {
		if !u.IsActive() || u.Birthday == nil {
			continue
		}
		if currentYear-u.Birthday.Year() > age {
			result = append(result, u)
		}
	}
	return result, nil
}

// SoftDelete отзывает активную учётную запись. Только для администраторов;
// пользователь не может отозвать сам себя иначе как через административный
// путь.
func (s *Service) SoftDelete(ctx context.Context, login, actor string) error {
	const op = "services.user.SoftDelete"

	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}

	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if u == nil || !u.IsActive() {
		return apperr.NotFound("user is missing or already revoked")
	}

	now := time.Now().UTC()
	u.RevokedOn = &now
	u.RevokedBy = &actor
	stampModification(u, actor)

	if err := s.repo.Update(ctx, *u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateInfo(login)
	s.log.Info("user revoked", slog.String("login", login), slog.String("actor", actor))
	s.publish(rabbitmq.KeyRevoked, login, actor)
	return nil
}

// HardDelete окончательно удаляет запись независимо от её состояния.
// Удаление несуществующего логина не является ошибкой, операция
// идемпотентна. Только для администраторов.
func (s *Service) HardDelete(ctx context.Context, login, actor string) error {
	const op = "services.user.HardDelete"

	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}

	removed, err := s.repo.Remove(ctx, login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateInfo(login)
	if removed {
		s.log.Info("user removed", slog.String("login", login), slog.String("actor", actor))
		s.publish(rabbitmq.KeyRemoved, login, actor)
	}
	return nil
}

// Restore возвращает отозванную запись в активное состояние.
// Только для администраторов.
func (s *Service) Restore(ctx context.Context, login, actor string) error {
	const op = "services.user.Restore"

	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}

	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if u == nil || u.IsActive() {
		return apperr.NotFound("user is missing or not revoked")
	}

	u.RevokedOn = nil
	u.RevokedBy = nil
	stampModification(u, actor)

	if err := s.repo.Update(ctx, *u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateInfo(login)
	s.log.Info("user restored", slog.String("login", login), slog.String("actor", actor))
	s.publish(rabbitmq.KeyRestored, login, actor)
	return nil
}

// updateField выполняет общий путь операций изменения одного поля:
// резолвит цель и актора, применяет правило self-or-admin, отклоняет
// отсутствующую или отозванную цель, применяет мутацию и сохраняет запись
// со штампом модификации.
func (s *Service) updateField(ctx context.Context, login, actor string, mutate func(*models.User)) error {
	const op = "services.user.updateField"

	target, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.requireSelfOrAdmin(ctx, login, actor); err != nil {
		return err
	}

	if target == nil || !target.IsActive() {
		return apperr.NotFound("user is missing or revoked")
	}

	mutate(target)
	stampModification(target, actor)

	if err := s.repo.Update(ctx, *target); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateInfo(login)
	return nil
}

// requireAdmin отклоняет операцию, если актор отсутствует, не является
// администратором или отозван.
func (s *Service) requireAdmin(ctx context.Context, actor string) error {
	const op = "services.user.requireAdmin"

	u, err := s.repo.GetByLogin(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if u == nil || !u.IsAdmin || !u.IsActive() {
		return apperr.Forbidden("actor is not an active admin")
	}
	return nil
}

// requireSelfOrAdmin разрешает операцию самому активному пользователю,
// в остальных случаях требует активного администратора.
func (s *Service) requireSelfOrAdmin(ctx context.Context, target, actor string) error {
	const op = "services.user.requireSelfOrAdmin"

	if target == actor {
		u, err := s.repo.GetByLogin(ctx, actor)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if u != nil && u.IsActive() {
			return nil
		}
	}
	return s.requireAdmin(ctx, actor)
}

func stampModification(u *models.User, actor string) {
	now := time.Now().UTC()
	u.ModifiedOn = &now
	u.ModifiedBy = &actor
}

func infoCacheKey(login string) string {
	return fmt.Sprintf("user:info:%s", login)
}

func (s *Service) invalidateInfo(login string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(infoCacheKey(login)); err != nil {
		s.log.Warn("failed to invalidate user info cache", slog.String("login", login), sl.Err(err))
	}
}

func (s *Service) publish(key, login, actor string) {
	if s.events == nil {
		return
	}
	event := rabbitmq.Event{
		Login:      login,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(key, event); err != nil {
		s.log.Warn("failed to publish user event", slog.String("key", key), sl.Err(err))
	}
}

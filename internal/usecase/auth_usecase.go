package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-medical-dispatch/internal/converter"
	"go-medical-dispatch/internal/delivery/dto"
	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"
	"go-medical-dispatch/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidSpecialty     = errors.New("unknown specialty")
	ErrInvalidDateFormat    = errors.New("invalid date format, use YYYY-MM-DD")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           domainRepo.UserRepository
	doctorProfileRepo  domainRepo.DoctorProfileRepository
	patientProfileRepo domainRepo.PatientProfileRepository
	jwtService         *jwt.JWTService
	redisClient        *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo domainRepo.UserRepository,
	doctorProfileRepo domainRepo.DoctorProfileRepository,
	patientProfileRepo domainRepo.PatientProfileRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		jwtService:         jwtService,
		redisClient:        redisClient,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		dob = &parsed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RolePatient,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.PatientProfile{
		UserID:      user.ID,
		DateOfBirth: dob,
		AddressLine: req.AddressLine,
		City:        req.City,
		AddressLat:  req.AddressLat,
		AddressLng:  req.AddressLng,
	}

	if err := u.patientProfileRepo.Create(tx, profile); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.Patient = profile
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	specialties := make([]string, 0, len(req.Specialties))
	for _, raw := range req.Specialties {
		specialty, ok := entity.ParseSpecialty(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSpecialty, raw)
		}
		specialties = append(specialties, string(specialty))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleDoctor,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.DoctorProfile{
		UserID:            user.ID,
		LicenseNumber:     req.LicenseNumber,
		Bio:               req.Bio,
		YearsOfExperience: req.YearsOfExperience,
		Specialties:       specialties,
		IsActive:          true,
	}
	if req.ServiceRadiusKm != nil {
		profile.ServiceRadiusKm = *req.ServiceRadiusKm
	}

	if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.Doctor = profile
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user.ID, user.Email, string(user.Role))
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	for _, pattern := range []string{
		fmt.Sprintf("access_token:*:%s", accessTokenID),
		fmt.Sprintf("refresh_token:*:%s", refreshTokenID),
	} {
		keys, err := u.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			u.log.Warnf("Failed to look up token keys: %+v", err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
			u.log.Warnf("Failed to delete tokens: %+v", err)
			return err
		}
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.UserID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	// Rotate: the old refresh token is single-use.
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, claims.Role)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email, role string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", userID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", userID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}
	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

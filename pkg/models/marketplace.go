package models

import "time"

type ListingType string

const (
	ListingEquipment ListingType = "equipment"
	ListingLand      ListingType = "land"
)

// Period is the unit the owner quoted the listing in. The booking total is
// always charged per day; PricePerDay (or the period rate converted to a
// daily one) drives the math.
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Profile holds the marketplace-facing identity of a user. UserUid comes from
// the auth token, not from this service.
type Profile struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	UserUid   string `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone" gorm:"size:20"`
	Address   string `json:"address"`
	Pincode   string `json:"pincode" gorm:"size:10"`
	City      string `json:"city"`
	State     string `json:"state"`
	AvatarURL string `json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Listing is a rentable piece of equipment or land. The four rate fields are
// all optional; Period says which one the owner actually quoted.
type Listing struct {
	ID          uint        `gorm:"primaryKey" json:"-"`
	ListingUid  string      `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	OwnerUid    string      `json:"owner_id" gorm:"type:uuid;index;not null"`
	Type        ListingType `json:"type" gorm:"size:20;not null"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description"`
	Category    string      `json:"category" gorm:"not null"`
	Brand       string      `json:"brand"`

	PricePerHour  *float64 `json:"price_per_hour"`
	PricePerDay   *float64 `json:"price_per_day"`
	PricePerWeek  *float64 `json:"price_per_week"`
	PricePerMonth *float64 `json:"price_per_month"`
	Period        Period   `json:"period" gorm:"size:10;default:'day'"`

	Location  string   `json:"location" gorm:"not null"`
	Pincode   string   `json:"pincode" gorm:"size:10"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	ImageURL  string   `json:"image_url"`
	Condition string   `json:"condition" gorm:"size:20"`
	Area      *float64 `json:"area"`
	Available bool     `json:"available" gorm:"default:true"`
	Rating    float64  `json:"rating" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking links a renter to a listing for a date range. OwnerUid is copied
// from the listing at creation time so both sides can query without a join.
type Booking struct {
	ID         uint          `gorm:"primaryKey" json:"-"`
	BookingUid string        `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	ListingUid string        `json:"listing_id" gorm:"type:uuid;index;not null"`
	RenterUid  string        `json:"renter_id" gorm:"type:uuid;index;not null"`
	OwnerUid   string        `json:"owner_id" gorm:"type:uuid;index;not null"`
	StartDate  time.Time     `json:"start_date" gorm:"not null"`
	EndDate    time.Time     `json:"end_date" gorm:"not null"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status" gorm:"size:20;default:'pending'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ListingUid  string    `json:"listing_id" gorm:"type:uuid;index;not null"`
	SenderUid   string    `json:"sender_id" gorm:"type:uuid;not null"`
	ReceiverUid string    `json:"receiver_id" gorm:"type:uuid;not null"`
	Content     string    `json:"content" gorm:"not null"`
	Read        bool      `json:"read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// Favorite rows are unique per (user, listing); the index backs the
// duplicate check instead of a read-then-insert.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserUid    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_listing"`
	ListingUid string    `json:"listing_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_listing"`
	CreatedAt  time.Time `json:"created_at"`
}

// Review rows are unique per (listing, user). The listing's Rating column is
// the mean of its review ratings, recomputed whenever a review lands.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingUid string    `json:"listing_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_listing_user"`
	UserUid    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_listing_user"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

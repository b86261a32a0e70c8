package network

import (
	"errors"
	"fmt"
	"log"
	"os"

	"compsuite/models"

	"gorm.io/gorm"
)

// MaxLevels is the depth of the commissionable upline chain.
const MaxLevels = 5

var ErrPlacementExhausted = errors.New("no placement slot within search bounds")

// Network answers structural questions about the referral hierarchy.
// It is read-only: members are written by the onboarding flow, never here.
type Network struct {
	db *gorm.DB

	// Matrix bounds. A node accepts MaxDirectChildren placements; the
	// breadth-first slot search gives up after MaxSearchDepth generations
	// or MaxSearchNodes visited nodes, whichever comes first.
	MaxDirectChildren int
	MaxSearchDepth    int
	MaxSearchNodes    int
}

func New(db *gorm.DB) *Network {
	return &Network{
		db:                db,
		MaxDirectChildren: 3,
		MaxSearchDepth:    10,
		MaxSearchNodes:    5000,
	}
}

// UplineAt returns the ancestor depth steps above memberID along the
// referral chain (depth 1 is the direct referrer). A chain shorter than
// depth returns (nil, nil); that is chain exhaustion, not an error.
func (n *Network) UplineAt(memberID uint, depth int) (*models.Member, error) {
	if depth < 1 || depth > MaxLevels {
		return nil, fmt.Errorf("upline depth %d out of range [1,%d]", depth, MaxLevels)
	}

	current := memberID
	for i := 0; i < depth; i++ {
		var m models.Member
		if err := n.db.First(&m, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if m.ReferrerID == nil {
			return nil, nil
		}
		current = *m.ReferrerID
	}

	var ancestor models.Member
	if err := n.db.First(&ancestor, current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ancestor, nil
}

// PlacementFor resolves the structural parent for a new signup under the
// nominal referrer. The referrer itself is used while it has a free slot;
// otherwise the nearest descendant with capacity is found breadth-first.
// When the bounded search exhausts, placement falls back to the default
// sponsor — logged as a warning, never fatal.
func (n *Network) PlacementFor(referrerID uint) (*models.Member, error) {
	queue := []uint{referrerID}
	visited := 0

	for depth := 0; depth <= n.MaxSearchDepth && len(queue) > 0; depth++ {
		var next []uint
		for _, id := range queue {
			visited++
			if visited > n.MaxSearchNodes {
				return n.fallbackSponsor(referrerID)
			}

			var count int64
			if err := n.db.Model(&models.Member{}).
				Where("placement_id = ?", id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count < int64(n.MaxDirectChildren) {
				var parent models.Member
				if err := n.db.First(&parent, id).Error; err != nil {
					return nil, err
				}
				return &parent, nil
			}

			var children []uint
			if err := n.db.Model(&models.Member{}).
				Where("placement_id = ?", id).
				Order("placement_slot asc").
				Pluck("id", &children).Error; err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		queue = next
	}

	return n.fallbackSponsor(referrerID)
}

// NextSlot returns the next free placement slot under parentID. The slot
// is only reserved once the member row is inserted; the unique index on
// (placement_id, placement_slot) rejects a concurrent taker, so callers
// retry on a duplicate-key error.
func (n *Network) NextSlot(parentID uint) (int, error) {
	var count int64
	err := n.db.Model(&models.Member{}).
		Where("placement_id = ?", parentID).Count(&count).Error
	return int(count) + 1, err
}

func (n *Network) fallbackSponsor(referrerID uint) (*models.Member, error) {
	log.Printf("⚠️  placement exhausted under member %d, falling back to default sponsor", referrerID)

	if code := os.Getenv("DEFAULT_SPONSOR_CODE"); code != "" {
		var sponsor models.Member
		if err := n.db.Where("member_code = ?", code).First(&sponsor).Error; err == nil {
			return &sponsor, nil
		}
	}

	var root models.Member
	if err := n.db.Where("referrer_id IS NULL").Order("id asc").First(&root).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlacementExhausted
		}
		return nil, err
	}
	return &root, nil
}

// Downline lists the IDs of every member at most maxDepth referral
// levels below memberID, breadth-first.
func (n *Network) Downline(memberID uint, maxDepth int) ([]uint, error) {
	var out []uint
	queue := []uint{memberID}

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var children []uint
		if err := n.db.Model(&models.Member{}).
			Where("referrer_id IN ?", queue).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		out = append(out, children...)
		queue = children
	}
	return out, nil
}

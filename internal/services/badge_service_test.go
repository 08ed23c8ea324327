// internal/services/badge_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/badge-backend/internal/database"
	"github.com/javajoker/badge-backend/internal/models"
	"github.com/javajoker/badge-backend/internal/utils"
)

type BadgeServiceTestSuite struct {
	suite.Suite
	env *testEnv
}

func (suite *BadgeServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
}

func (suite *BadgeServiceTestSuite) TestInitializeCollectionOnce() {
	collection := suite.env.initCollection(suite.T())
	suite.Equal("Membership Badge", collection.Name)
	suite.Equal("BADGE", collection.Symbol)
	suite.Nil(collection.RootAssetID)

	_, err := suite.env.badges.InitializeCollection(suite.env.adminID, &InitializeCollectionRequest{
		Name:     "Second Collection",
		Symbol:   "TWO",
		TokenURI: "https://meta.badge.local/other.json",
	})
	suite.ErrorIs(err, ErrCollectionAlreadyInitialized)

	// The failed call must not have replaced anything.
	current, err := suite.env.badges.Collection()
	suite.NoError(err)
	suite.Equal("Membership Badge", current.Name)
}

func (suite *BadgeServiceTestSuite) TestMintBeforeRootFails() {
	suite.env.initCollection(suite.T())

	_, err := suite.env.badges.Mint(suite.env.adminID, testHolderA)
	suite.ErrorIs(err, ErrRootNotSet)

	supply, err := suite.env.ledger.TotalSupply()
	suite.NoError(err)
	suite.Equal(int64(0), supply)
}

func (suite *BadgeServiceTestSuite) TestMintRoot() {
	suite.env.initCollection(suite.T())

	result, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)
	suite.Equal(int64(0), result.TokenID)
	suite.Equal(testHolderA, result.Recipient)

	// Collection root points at the freshly registered asset.
	collection, err := suite.env.badges.Collection()
	suite.Require().NoError(err)
	suite.Require().NotNil(collection.RootAssetID)
	suite.Equal(result.AssetID, *collection.RootAssetID)

	// Custody moved out of the vault within the same call.
	owner, err := suite.env.ledger.OwnerOf(0)
	suite.NoError(err)
	suite.Equal(testHolderA, owner)

	// The asset carries the default license terms and no parent.
	asset, err := suite.env.registry.GetAsset(result.AssetID)
	suite.Require().NoError(err)
	suite.Nil(asset.ParentAssetID)
	suite.Equal(testHolderA, asset.ControllerAddress)
	suite.Require().Len(asset.LicenseAttachments, 1)
	suite.Equal("pil", asset.LicenseAttachments[0].TemplateID)
	suite.Equal(int64(1), asset.LicenseAttachments[0].TermsID)

	// One mint event, flagged as root.
	var event models.BadgeEvent
	err = suite.env.db.Where("event_type = ?", models.EventTypeBadgeMinted).First(&event).Error
	suite.Require().NoError(err)
	suite.Equal(testHolderA, event.Recipient)
	suite.Equal(true, event.Payload["root"])
}

func (suite *BadgeServiceTestSuite) TestMintRootOnlyOnce() {
	suite.env.initCollection(suite.T())

	_, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)

	_, err = suite.env.badges.MintRoot(suite.env.adminID, testHolderB)
	suite.ErrorIs(err, ErrRootAlreadySet)

	// The rejected call performed no work.
	supply, err := suite.env.ledger.TotalSupply()
	suite.NoError(err)
	suite.Equal(int64(1), supply)

	balance, err := suite.env.ledger.BalanceOf(testHolderB)
	suite.NoError(err)
	suite.Equal(int64(0), balance)
}

func (suite *BadgeServiceTestSuite) TestMintDerivative() {
	suite.env.initCollection(suite.T())

	root, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)

	result, err := suite.env.badges.Mint(suite.env.adminID, testHolderB)
	suite.Require().NoError(err)
	suite.Equal(int64(1), result.TokenID)

	// The new asset is a direct child of the root, depth one.
	asset, err := suite.env.registry.GetAsset(result.AssetID)
	suite.Require().NoError(err)
	suite.Require().NotNil(asset.ParentAssetID)
	suite.Equal(root.AssetID, *asset.ParentAssetID)
	suite.Require().Len(asset.LicenseAttachments, 1)
	suite.Require().NotNil(asset.LicenseAttachments[0].ParentAssetID)
	suite.Equal(root.AssetID, *asset.LicenseAttachments[0].ParentAssetID)

	owner, err := suite.env.ledger.OwnerOf(1)
	suite.NoError(err)
	suite.Equal(testHolderB, owner)

	// Every derivative hangs off the root, never off another derivative.
	third, err := suite.env.badges.Mint(suite.env.adminID, testHolderC)
	suite.Require().NoError(err)
	suite.Equal(int64(2), third.TokenID)

	children, err := suite.env.licensing.Derivatives(root.AssetID)
	suite.NoError(err)
	suite.Len(children, 2)
}

func (suite *BadgeServiceTestSuite) TestOneBadgePerHolder() {
	suite.env.initCollection(suite.T())

	_, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)

	_, err = suite.env.badges.Mint(suite.env.adminID, testHolderA)
	var hasBadge *RecipientHasBadgeError
	suite.Require().True(errors.As(err, &hasBadge))
	suite.Equal(testHolderA, hasBadge.Address)

	// Nothing minted, nothing registered by the rejected call.
	supply, err := suite.env.ledger.TotalSupply()
	suite.NoError(err)
	suite.Equal(int64(1), supply)

	var assetCount int64
	suite.NoError(suite.env.db.Model(&models.IPAsset{}).Count(&assetCount).Error)
	suite.Equal(int64(1), assetCount)
}

func (suite *BadgeServiceTestSuite) TestMintRejectsInvalidRecipient() {
	suite.env.initCollection(suite.T())

	_, err := suite.env.badges.MintRoot(suite.env.adminID, "not-an-address")
	suite.ErrorIs(err, ErrInvalidRecipient)

	_, err = suite.env.badges.MintRoot(suite.env.adminID, "0x0000000000000000000000000000000000000000")
	suite.ErrorIs(err, ErrInvalidRecipient)

	_, err = suite.env.badges.Mint(suite.env.adminID, "")
	suite.ErrorIs(err, ErrInvalidRecipient)
}

func (suite *BadgeServiceTestSuite) TestMintRejectsVaultRecipient() {
	suite.env.initCollection(suite.T())

	// The vault is a valid non-zero address with balance zero, but a badge
	// parked there would collide with the staged custody of every later
	// mint. Both paths refuse it up front.
	_, err := suite.env.badges.MintRoot(suite.env.adminID, testVaultAddress)
	suite.ErrorIs(err, ErrInvalidRecipient)

	_, err = suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)

	_, err = suite.env.badges.Mint(suite.env.adminID, testVaultAddress)
	suite.ErrorIs(err, ErrInvalidRecipient)

	balance, err := suite.env.ledger.BalanceOf(testVaultAddress)
	suite.NoError(err)
	suite.Equal(int64(0), balance)

	// Minting keeps working after the rejected calls.
	_, err = suite.env.badges.Mint(suite.env.adminID, testHolderB)
	suite.NoError(err)
	_, err = suite.env.badges.Mint(suite.env.adminID, testHolderC)
	suite.NoError(err)
}

func (suite *BadgeServiceTestSuite) TestSharedTokenURI() {
	suite.env.initCollection(suite.T())

	_, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)
	_, err = suite.env.badges.Mint(suite.env.adminID, testHolderB)
	suite.Require().NoError(err)

	// Minted and unminted ids resolve to the same descriptor.
	uri0, err := suite.env.badges.TokenURI(0)
	suite.NoError(err)
	uri999, err := suite.env.badges.TokenURI(999)
	suite.NoError(err)
	suite.Equal(uri0, uri999)
	suite.Equal("https://meta.badge.local/badge.json", uri0)
}

func (suite *BadgeServiceTestSuite) TestSetTokenURI() {
	suite.env.initCollection(suite.T())

	_, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)
	_, err = suite.env.badges.Mint(suite.env.adminID, testHolderB)
	suite.Require().NoError(err)

	updated, err := suite.env.badges.SetTokenURI("https://meta.badge.local/v2.json")
	suite.Require().NoError(err)
	suite.Equal("https://meta.badge.local/v2.json", updated.TokenURI)

	// The change is visible for every id at once.
	uri, err := suite.env.badges.TokenURI(1)
	suite.NoError(err)
	suite.Equal("https://meta.badge.local/v2.json", uri)

	// Indexer event covers the id range from zero to the current supply.
	var event models.BadgeEvent
	err = suite.env.db.Where("event_type = ?", models.EventTypeBatchMetadataUpdated).First(&event).Error
	suite.Require().NoError(err)
	suite.EqualValues(0, event.Payload["from_token_id"])
	suite.EqualValues(2, event.Payload["to_token_id"])
}

func (suite *BadgeServiceTestSuite) TestLockedForAnyID() {
	suite.env.initCollection(suite.T())

	suite.True(suite.env.badges.Locked(0))
	suite.True(suite.env.badges.Locked(999))

	_, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)
	suite.True(suite.env.badges.Locked(0))
}

func (suite *BadgeServiceTestSuite) TestMintIsAtomic() {
	suite.env.initCollection(suite.T())

	// A failure after registration rolls back the asset and token writes
	// together; this drives the same transaction helper the mint flows use.
	boom := errors.New("collaborator failure")
	err := database.WithTransaction(suite.env.db, func(tx *gorm.DB) error {
		collection, err := suite.env.badges.collection(tx)
		if err != nil {
			return err
		}
		if _, err := suite.env.registry.MintAndRegister(tx, suite.env.badges.metadataOf(collection), suite.env.adminID); err != nil {
			return err
		}
		return boom
	})
	suite.ErrorIs(err, boom)

	var assetCount, tokenCount int64
	suite.NoError(suite.env.db.Model(&models.IPAsset{}).Count(&assetCount).Error)
	suite.NoError(suite.env.db.Model(&models.BadgeToken{}).Count(&tokenCount).Error)
	suite.Equal(int64(0), assetCount)
	suite.Equal(int64(0), tokenCount)
}

func (suite *BadgeServiceTestSuite) TestCollectionStats() {
	_, err := suite.env.badges.CollectionStats()
	suite.ErrorIs(err, ErrCollectionNotInitialized)

	suite.env.initCollection(suite.T())
	_, err = suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)

	stats, err := suite.env.badges.CollectionStats()
	suite.Require().NoError(err)
	suite.Equal(int64(1), stats["total_supply"])
	suite.Equal(true, stats["root_set"])
}

func (suite *BadgeServiceTestSuite) TestListBadges() {
	suite.env.initCollection(suite.T())

	_, err := suite.env.badges.MintRoot(suite.env.adminID, testHolderA)
	suite.Require().NoError(err)
	_, err = suite.env.badges.Mint(suite.env.adminID, testHolderB)
	suite.Require().NoError(err)

	badges, total, err := suite.env.badges.ListBadges(utils.PaginationParams{
		Page:  1,
		Limit: 20,
		Sort:  "token_id",
		Order: "asc",
	})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Require().Len(badges, 2)
	suite.Equal(int64(0), badges[0].TokenID)
	suite.Equal(int64(1), badges[1].TokenID)

	// Holder filter hits the unique badge.
	filtered, total, err := suite.env.badges.ListBadges(utils.PaginationParams{
		Page:   1,
		Limit:  20,
		Sort:   "token_id",
		Order:  "asc",
		Search: testHolderB,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(filtered, 1)
	suite.Equal(testHolderB, filtered[0].HolderAddress)
}

func TestBadgeServiceSuite(t *testing.T) {
	suite.Run(t, new(BadgeServiceTestSuite))
}

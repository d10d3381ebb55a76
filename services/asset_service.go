package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/storage"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
)

// AssetService cria ativos e distribui as frações iniciais.
type AssetService struct {
	DB *storage.DB
	// ativos não mudam depois de criados, então o cache nunca precisa ser invalidado
	cache *lru.Cache[int64, models.Asset]
}

// NewAssetService cria uma nova instância do serviço de ativos com um cache de cacheSize ativos.
func NewAssetService(db *storage.DB, cacheSize int) (*AssetService, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[int64, models.Asset](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cache de ativos: %w", err)
	}
	return &AssetService{DB: db, cache: cache}, nil
}

// AssetInput são os dados de um novo ativo. InitialOwnership mapeia id do dono → unidades
// que ele recebe na criação.
type AssetInput struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	TotalUnit        int64           `json:"total_unit"`
	UnitMin          int64           `json:"unit_min"`
	UnitMax          int64           `json:"unit_max"`
	InitialValue     decimal.Decimal `json:"initial_value"`
	InitialOwnership map[int64]int64 `json:"initial_ownership"`
}

// MintedAsset é o ativo criado com as frações iniciais.
type MintedAsset struct {
	Asset     models.Asset       `json:"asset"`
	Fractions []models.Fraction  `json:"fractions"`
	Value     models.ValueRecord `json:"value"`
}

func (in AssetInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("name é obrigatório")
	}
	if in.TotalUnit <= 0 {
		return validationError("total_unit deve ser positivo")
	}
	if in.UnitMin <= 0 || in.UnitMin > in.UnitMax || in.UnitMax > in.TotalUnit {
		return validationError("é preciso 0 < unit_min <= unit_max <= total_unit")
	}
	if err := validateMoney("initial_value", in.InitialValue); err != nil {
		return err
	}

	var total int64
	for ownerID, units := range in.InitialOwnership {
		if units < in.UnitMin || units > in.UnitMax {
			return validationError("unidades do usuário %d devem ficar entre %d e %d", ownerID, in.UnitMin, in.UnitMax)
		}
		// comparado antes de somar para a soma nunca estourar int64
		if units > in.TotalUnit-total {
			return validationError("distribuição inicial excede total_unit (%d)", in.TotalUnit)
		}
		total += units
	}
	return nil
}

// Create cria o ativo, uma fração inicial para cada dono e o primeiro registro de valor, tudo
// numa única transação. Apenas gestores podem criar ativos.
func (s *AssetService) Create(ctx context.Context, actor models.Actor, in AssetInput) (MintedAsset, error) {
	if !actor.IsManager {
		return MintedAsset{}, newError(KindForbidden, "apenas gestores podem criar ativos")
	}
	if err := in.validate(); err != nil {
		return MintedAsset{}, err
	}

	ownerIDs := make([]int64, 0, len(in.InitialOwnership))
	for id := range in.InitialOwnership {
		ownerIDs = append(ownerIDs, id)
	}
	sort.Slice(ownerIDs, func(i, j int) bool { return ownerIDs[i] < ownerIDs[j] })

	minted := MintedAsset{Fractions: []models.Fraction{}}
	err := s.DB.WithTx(ctx, func(q *storage.Queries) error {
		for _, id := range ownerIDs {
			if _, err := requireOwner(ctx, q, id); err != nil {
				return err
			}
		}

		minted.Asset = models.Asset{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			TotalUnit:   in.TotalUnit,
			UnitMin:     in.UnitMin,
			UnitMax:     in.UnitMax,
		}
		if err := q.SaveAsset(ctx, &minted.Asset); err != nil {
			return err
		}

		perUnit := in.InitialValue.DivRound(decimal.NewFromInt(in.TotalUnit), 2)
		for _, id := range ownerIDs {
			f := models.Fraction{
				AssetID:      minted.Asset.ID,
				OwnerID:      id,
				Units:        in.InitialOwnership[id],
				ValuePerUnit: perUnit,
				CreatedAt:    minted.Asset.CreatedAt,
			}
			if err := q.SaveFraction(ctx, &f); err != nil {
				return err
			}
			minted.Fractions = append(minted.Fractions, f)
		}

		minted.Value = models.ValueRecord{
			AssetID:    minted.Asset.ID,
			Value:      in.InitialValue,
			RecordedAt: minted.Asset.CreatedAt,
			Source:     models.ValueSourceInitial,
		}
		minted.Value.AdjustedBy.Int64, minted.Value.AdjustedBy.Valid = actor.UserID, true
		return q.SaveValueRecord(ctx, &minted.Value)
	})
	if err != nil {
		return MintedAsset{}, err
	}

	s.cache.Add(minted.Asset.ID, minted.Asset)
	log.Printf("Ativo %d (%s) criado com %d frações iniciais", minted.Asset.ID, minted.Asset.Name, len(minted.Fractions))
	return minted, nil
}

// Get busca um ativo, passando primeiro pelo cache.
func (s *AssetService) Get(ctx context.Context, id int64) (models.Asset, error) {
	if asset, ok := s.cache.Get(id); ok {
		return asset, nil
	}
	asset, err := requireAsset(ctx, s.DB.Queries(), id)
	if err != nil {
		return models.Asset{}, err
	}
	s.cache.Add(id, asset)
	return asset, nil
}

// List devolve todos os ativos.
func (s *AssetService) List(ctx context.Context) ([]models.Asset, error) {
	return s.DB.Queries().ListAssets(ctx)
}

// Fractions devolve todas as frações de um ativo, inclusive as já consumidas.
func (s *AssetService) Fractions(ctx context.Context, id int64) ([]models.Fraction, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.DB.Queries().FractionsByAsset(ctx, id)
}

// FractionHistory devolve a procedência de uma fração: a cadeia de frações de origem, as
// transações que criaram cada elo e as vendas que consumiram unidades dela.
func (s *AssetService) FractionHistory(ctx context.Context, fractionID int64) (models.FractionHistory, error) {
	q := s.DB.Queries()
	fraction, found, err := q.GetFraction(ctx, fractionID)
	if err != nil {
		return models.FractionHistory{}, err
	}
	if !found {
		return models.FractionHistory{}, notFound("fração %d não encontrada", fractionID)
	}

	history := models.FractionHistory{Fraction: fraction, Lineage: []models.Fraction{}}
	chain := []int64{fraction.ID}
	current := fraction
	for {
		parentID, ok := current.Parent()
		if !ok {
			break
		}
		// a origem sempre é gravada antes da filha
		if parentID >= current.ID {
			return models.FractionHistory{}, fmt.Errorf("linhagem inconsistente na fração %d", current.ID)
		}
		parent, found, err := q.GetFraction(ctx, parentID)
		if err != nil {
			return models.FractionHistory{}, err
		}
		if !found {
			return models.FractionHistory{}, fmt.Errorf("fração de origem %d não encontrada", parentID)
		}
		history.Lineage = append(history.Lineage, parent)
		chain = append(chain, parent.ID)
		current = parent
	}

	if history.Acquisitions, err = q.TransactionsByFraction(ctx, chain...); err != nil {
		return models.FractionHistory{}, err
	}
	if history.Disposals, err = q.TransactionsFromFraction(ctx, fraction.ID); err != nil {
		return models.FractionHistory{}, err
	}
	return history, nil
}

package service

import (
	"context"
	"time"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// 通知事件名
const (
	EventJoinRequest     = "private_channel_join_request"
	EventRequestApproved = "channel_request_approved"
)

// MembershipService 成员状态机。
// 每个 (user, channel) 的状态转换：None→{Pending,Member}，Pending→{None,Member,Blocked}，
// Member→{None}，Blocked→{None}（仅限显式 unblock）。
// 鉴权失败在任何写之前短路；级联写以 InTx 为单位提交；通知在提交后入队且失败不影响命令结果。
type MembershipService struct {
	store      repository.Store
	dispatcher repository.Dispatcher
}

func NewMembershipService(store repository.Store, dispatcher repository.Dispatcher) *MembershipService {
	return &MembershipService{store: store, dispatcher: dispatcher}
}

// ToggleSubscription 加入/申请/取消申请/退出，按当前状态分派。
// 返回转换后的状态。
func (s *MembershipService) ToggleSubscription(ctx context.Context, actorID, channelID uint64) (model.MemberStatus, error) {
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return model.StatusNone, err
	}

	// 决策用的多次读相互独立，并发取回后再判定
	var (
		chPerms model.ChannelPermissions
		coPerms model.CommunityPermissions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chPerms, err = s.store.GetChannelPermissions(gctx, channelID, actorID)
		return err
	})
	g.Go(func() error {
		var err error
		coPerms, err = s.store.GetCommunityPermissions(gctx, ch.CommunityID, actorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.StatusNone, err
	}

	switch {
	case chPerms.IsOwner:
		return model.StatusNone, pkg.InvalidOperation("owners cannot join or leave their own channel")

	case chPerms.IsBlocked:
		return model.StatusNone, pkg.Unauthorized("you are blocked from this channel")

	case chPerms.IsPending:
		// 取消入群申请
		if err := s.store.RemoveMemberInChannel(ctx, channelID, actorID); err != nil {
			return model.StatusNone, err
		}
		return model.StatusNone, nil

	case chPerms.IsMember:
		return s.leave(ctx, ch, actorID)

	default:
		return s.join(ctx, ch, actorID, coPerms)
	}
}

func (s *MembershipService) join(ctx context.Context, ch *model.Channel, actorID uint64, coPerms model.CommunityPermissions) (model.MemberStatus, error) {
	if ch.IsPrivate {
		if err := s.store.CreateOrUpdatePendingInChannel(ctx, ch.ID, actorID); err != nil {
			return model.StatusNone, err
		}
		s.notify(ctx, EventJoinRequest, map[string]any{
			"channel_id":   ch.ID,
			"community_id": ch.CommunityID,
			"user_id":      actorID,
		})
		return model.StatusPending, nil
	}

	// 公开频道：加入 + 首次进入社区时授予社区成员并自动订阅默认频道，作为一个写单元
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateMemberInChannel(ctx, ch.ID, actorID); err != nil {
			return err
		}
		if !coPerms.IsMember && !coPerms.IsOwner {
			if err := tx.CreateCommunityMember(ctx, ch.CommunityID, actorID, model.RoleMember); err != nil {
				return err
			}
			if err := tx.CreateMemberInDefaultChannels(ctx, ch.CommunityID, actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.StatusNone, err
	}
	return model.StatusMember, nil
}

func (s *MembershipService) leave(ctx context.Context, ch *model.Channel, actorID uint64) (model.MemberStatus, error) {
	if err := s.store.RemoveMemberInChannel(ctx, ch.ID, actorID); err != nil {
		return model.StatusNone, err
	}

	// 退出提交后用最新状态判断是否是该社区的最后一个频道，避免并发加入被漏算
	stillIn, err := s.store.UserIsMemberOfAnyChannelInCommunity(ctx, ch.CommunityID, actorID)
	if err != nil {
		return model.StatusNone, err
	}
	if !stillIn {
		if err := s.store.RemoveCommunityMember(ctx, ch.CommunityID, actorID); err != nil {
			return model.StatusNone, err
		}
	}
	return model.StatusNone, nil
}

// ApprovePendingUser 频道 owner 或社区 owner 通过入群申请。
// 用户还没有社区成员身份时一并授予，并自动订阅默认频道，整体原子提交。
func (s *MembershipService) ApprovePendingUser(ctx context.Context, actorID, channelID, userID uint64) error {
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	var (
		actorCh  model.ChannelPermissions
		actorCo  model.CommunityPermissions
		targetCh model.ChannelPermissions
		targetCo model.CommunityPermissions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		actorCh, err = s.store.GetChannelPermissions(gctx, channelID, actorID)
		return err
	})
	g.Go(func() error {
		var err error
		actorCo, err = s.store.GetCommunityPermissions(gctx, ch.CommunityID, actorID)
		return err
	})
	g.Go(func() error {
		var err error
		targetCh, err = s.store.GetChannelPermissions(gctx, channelID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		targetCo, err = s.store.GetCommunityPermissions(gctx, ch.CommunityID, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if !actorCh.IsOwner && !actorCo.IsOwner {
		return pkg.Unauthorized("only channel or community owners can approve requests")
	}
	if !targetCh.IsPending {
		return pkg.InvalidOperation("user is not pending in this channel")
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.ApprovePendingInChannel(ctx, channelID, userID); err != nil {
			return err
		}
		if !targetCo.IsMember && !targetCo.IsOwner {
			if err := tx.CreateCommunityMember(ctx, ch.CommunityID, userID, model.RoleMember); err != nil {
				return err
			}
			if err := tx.CreateMemberInDefaultChannels(ctx, ch.CommunityID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, EventRequestApproved, map[string]any{
		"channel_id": channelID,
		"user_id":    userID,
	})
	return nil
}

// BlockPendingUser 拒绝入群申请并拉黑。目前只支持对 Pending 用户操作
func (s *MembershipService) BlockPendingUser(ctx context.Context, actorID, channelID, userID uint64) error {
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	actorCh, actorCo, err := s.actorPermissions(ctx, ch, actorID)
	if err != nil {
		return err
	}
	if !actorCh.IsOwner && !actorCo.IsOwner {
		return pkg.Unauthorized("only channel or community owners can block users")
	}

	targetCh, err := s.store.GetChannelPermissions(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !targetCh.IsPending {
		return pkg.InvalidOperation("user is not pending in this channel")
	}

	return s.store.BlockUserInChannel(ctx, channelID, userID)
}

// UnblockUser 解除拉黑，状态回到 None；重新成为成员要走新的 join/approve 流程
func (s *MembershipService) UnblockUser(ctx context.Context, actorID, channelID, userID uint64) error {
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	actorCh, actorCo, err := s.actorPermissions(ctx, ch, actorID)
	if err != nil {
		return err
	}
	if !actorCh.IsOwner && !actorCo.IsOwner {
		return pkg.Unauthorized("only channel or community owners can unblock users")
	}

	targetCh, err := s.store.GetChannelPermissions(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !targetCh.IsBlocked {
		return pkg.InvalidOperation("user is not blocked in this channel")
	}

	return s.store.UnblockUserInChannel(ctx, channelID, userID)
}

// ToggleNotifications 成员开关频道通知，返回新值
func (s *MembershipService) ToggleNotifications(ctx context.Context, actorID, channelID uint64) (bool, error) {
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		return false, err
	}
	chPerms, err := s.store.GetChannelPermissions(ctx, channelID, actorID)
	if err != nil {
		return false, err
	}
	if !chPerms.IsMember {
		return false, pkg.InvalidOperation("only members can toggle channel notifications")
	}
	return s.store.ToggleChannelNotifications(ctx, channelID, actorID)
}

func (s *MembershipService) actorPermissions(ctx context.Context, ch *model.Channel, actorID uint64) (model.ChannelPermissions, model.CommunityPermissions, error) {
	var (
		chPerms model.ChannelPermissions
		coPerms model.CommunityPermissions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chPerms, err = s.store.GetChannelPermissions(gctx, ch.ID, actorID)
		return err
	})
	g.Go(func() error {
		var err error
		coPerms, err = s.store.GetCommunityPermissions(gctx, ch.CommunityID, actorID)
		return err
	})
	err := g.Wait()
	return chPerms, coPerms, err
}

func (s *MembershipService) notify(ctx context.Context, event string, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Enqueue(ctx, event, payload); err != nil {
		logrus.WithError(err).WithField("event", event).Warn("enqueue notification failed")
	}
}

// MemberCountReconciler 频道成员数对账计数器
type MemberCountReconciler struct {
	repo      repository.CountStore
	batchSize int
	interval  time.Duration
}

func NewMemberCountReconciler(repo repository.CountStore) *MemberCountReconciler {
	return &MemberCountReconciler{
		repo:      repo,
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

// Run 对账定时任务启动器
func (r *MemberCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	var lastID uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			lastID = r.reconcileOnce(ctx, lastID)
		}
	}
}

// 对账一次，返回下一批起点；扫完一轮从头开始
func (r *MemberCountReconciler) reconcileOnce(ctx context.Context, lastID uint64) uint64 {
	counts, next, err := r.repo.ChannelCounts(ctx, r.batchSize, lastID)
	if err != nil {
		logrus.WithError(err).Warn("reconcile list err")
		return lastID
	}
	if len(counts) == 0 {
		return 0
	}

	for _, c := range counts {
		real, err := r.repo.RealMemberCount(ctx, c.ID)
		if err != nil {
			continue
		}
		if real != c.MemberCount {
			_ = r.repo.SetMemberCount(ctx, c.ID, real)
		}
	}
	return next
}
